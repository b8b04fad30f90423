package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/occsched/config"
	"github.com/kilianp07/occsched/core/generator"
	coremetrics "github.com/kilianp07/occsched/core/metrics"
	coremon "github.com/kilianp07/occsched/core/monitoring"
	coremqtt "github.com/kilianp07/occsched/core/mqtt"
	"github.com/kilianp07/occsched/core/resources"
	"github.com/kilianp07/occsched/core/runlog"
	"github.com/kilianp07/occsched/infra/logger"
	"github.com/kilianp07/occsched/infra/metrics"
	"github.com/kilianp07/occsched/infra/mqtt"
	"github.com/kilianp07/occsched/internal/eventbus"
	"github.com/kilianp07/occsched/pkg/export"
)

// Service generates schedules for batches of buildings and wires the
// results to the output files, metrics sinks, run ledger and notifier.
type Service struct {
	cfg      *config.Config
	gen      *generator.Generator
	sink     coremetrics.MetricsSink
	runs     runlog.Store
	notifier coremqtt.Notifier
	bus      *eventbus.TypedBus[generator.Progress]
	stdout   io.Writer
	log      logger.Logger
	// mu serializes writes to a shared output file.
	mu sync.Mutex

	promOnce sync.Once
	promStop context.CancelFunc
}

// Option customizes a Service.
type Option func(*Service)

// WithNotifier replaces the MQTT notifier.
func WithNotifier(n coremqtt.Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithRunStore replaces the configured run ledger.
func WithRunStore(r runlog.Store) Option { return func(s *Service) { s.runs = r } }

// WithSink replaces the configured metrics sinks.
func WithSink(m coremetrics.MetricsSink) Option { return func(s *Service) { s.sink = m } }

// WithStdout redirects output written to "-".
func WithStdout(w io.Writer) Option { return func(s *Service) { s.stdout = w } }

// New loads the resource tables and builds the collaborators described by
// cfg. Options take precedence over the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	s := &Service{cfg: cfg, stdout: os.Stdout, log: logger.New("service")}
	for _, o := range opts {
		o(s)
	}
	store := resources.NewStore(cfg.Resources.Path)
	tables, err := store.LoadTables(len(cfg.Generation.ClusterProbabilities))
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	gen, err := generator.New(tables, cfg.Generation.Options(), logger.New("generator"))
	if err != nil {
		return nil, err
	}
	s.bus = eventbus.NewTyped[generator.Progress]()
	s.gen = gen.WithProgress(s.bus)

	if s.sink == nil {
		if s.sink, err = coremetrics.NewMetricsSink(cfg.Metrics.Sinks); err != nil {
			return nil, fmt.Errorf("metrics sinks: %w", err)
		}
	}
	if s.runs == nil {
		if s.runs, err = runlog.Open(cfg.RunLog); err != nil {
			return nil, fmt.Errorf("run log: %w", err)
		}
	}
	if s.notifier == nil {
		s.notifier = coremqtt.NopNotifier{}
		if cfg.MQTT.Enabled() {
			client, err := mqtt.NewPahoClient(cfg.MQTT)
			if err != nil {
				return nil, fmt.Errorf("mqtt client: %w", err)
			}
			s.notifier = client
		}
	}
	return s, nil
}

// Outcome is the result of one building of a batch.
type Outcome struct {
	Building string
	Result   *generator.Result
	Output   string
	Err      error
}

// RunBatch generates every building, at most generation.parallelism at a
// time. A failed building does not stop the others; the returned error
// joins every failure.
func (s *Service) RunBatch(ctx context.Context, buildings []generator.Building) ([]Outcome, error) {
	collectCtx, stopCollect := context.WithCancel(context.Background())
	collected := metrics.StartProgressCollector(collectCtx, s.bus, s.sink)
	defer func() {
		stopCollect()
		<-collected
	}()
	s.startPromServer()

	out := make([]Outcome, len(buildings))
	var g errgroup.Group
	g.SetLimit(s.cfg.Generation.Parallelism)
	for i, b := range buildings {
		g.Go(func() error {
			out[i] = s.generate(ctx, b)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range out {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	s.log.Infof("batch done: %d buildings, %d failed", len(buildings), len(errs))
	return out, errors.Join(errs...)
}

// startPromServer serves /metrics once per service, until Close.
func (s *Service) startPromServer() {
	addr := s.cfg.Metrics.PrometheusAddr
	if addr == "" {
		return
	}
	s.promOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.promStop = cancel
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	})
}

func (s *Service) generate(ctx context.Context, b generator.Building) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			coremon.CapturePanic(r)
			panic(r)
		}
	}()
	o.Building = b.ID
	start := time.Now()
	res, err := s.gen.Generate(ctx, b)
	if err == nil {
		o.Result = res
		o.Output, err = s.write(res)
	}
	if err == nil {
		s.publish(ctx, res, o.Output)
	}
	o.Err = err
	s.record(ctx, b, res, o.Output, err, time.Since(start))
	return o
}

// write exports the configured columns of res.
func (s *Service) write(res *generator.Result) (string, error) {
	out := s.cfg.Output
	path := out.Path(res.Building)
	var w io.Writer
	if path == "-" {
		s.mu.Lock()
		defer s.mu.Unlock()
		w = s.stdout
	}
	switch out.Format {
	case config.FormatJSON:
		doc, err := export.NewDocument(res, out.Columns)
		if err != nil {
			return "", err
		}
		if w != nil {
			return path, export.WriteJSON(w, doc)
		}
		return path, writeFile(path, func(w io.Writer) error { return export.WriteJSON(w, doc) })
	default:
		t, err := export.FromSchedule(res.Schedule, out.Columns)
		if err != nil {
			return "", err
		}
		if w != nil {
			return path, export.WriteCSV(w, t, out.Precision)
		}
		return path, export.WriteFile(path, t, out.Precision, out.Append)
	}
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// publish forwards a successful schedule to the schedule recorders and the
// notifier. Failures are logged; the schedule is already written.
func (s *Service) publish(ctx context.Context, res *generator.Result, output string) {
	names := res.Schedule.Names()
	if rec, ok := s.sink.(coremetrics.ScheduleRecorder); ok {
		cols := make(map[string][]float64, len(names))
		for _, n := range names {
			cols[n], _ = res.Schedule.Get(n)
		}
		err := rec.RecordSchedule(coremetrics.ScheduleEvent{
			RunID:    res.RunID,
			Building: res.Building,
			Start:    res.Calendar.Date(0),
			Step:     time.Duration(res.Calendar.MinutesPerStep) * time.Minute,
			Columns:  cols,
		})
		if err != nil {
			s.log.Errorf("record schedule %s: %v", res.RunID, err)
		}
	}
	ev := coremqtt.Ready{
		RunID:       res.RunID,
		Building:    res.Building,
		Seed:        res.Seed,
		Year:        res.Calendar.Year,
		Steps:       res.Schedule.Steps(),
		Columns:     names,
		Output:      output,
		Diagnostics: len(res.Diagnostics),
		Timestamp:   time.Now(),
	}
	if err := s.notifier.NotifyReady(ctx, ev); err != nil {
		s.log.Errorf("notify %s: %v", res.Building, err)
	}
}

// record appends the run to the ledger, the metrics sinks and, for
// failures, the error monitor.
func (s *Service) record(ctx context.Context, b generator.Building, res *generator.Result, output string, err error, d time.Duration) {
	now := time.Now()
	rec := runlog.Record{
		Building:   b.ID,
		Seed:       b.Seed,
		Occupants:  b.Occupants,
		Year:       s.cfg.Generation.Year,
		Timestamp:  now,
		DurationMS: d.Milliseconds(),
		Status:     runlog.StatusOK,
		Output:     output,
	}
	ev := coremetrics.RunEvent{
		Building:  b.ID,
		Seed:      b.Seed,
		Occupants: b.Occupants,
		Duration:  d,
		Time:      now,
	}
	if res != nil {
		rec.RunID = res.RunID
		rec.Events = res.Stats.Events
		rec.Diagnostics = res.Diagnostics
		ev.RunID = res.RunID
		ev.Steps = res.Schedule.Steps()
		ev.Columns = len(res.Schedule.Names())
		ev.Events = res.Stats.Events
		ev.SetpointAdjusted = res.Stats.SetpointAdjusted
		ev.Diagnostics = len(res.Diagnostics)
	} else {
		rec.RunID = uuid.NewString()
		ev.RunID = rec.RunID
	}
	if err != nil {
		rec.Status = runlog.StatusFailed
		if coremon.Kind(err) == coremon.KindCanceled {
			rec.Status = runlog.StatusCanceled
		}
		rec.Error = err.Error()
		ev.Err = err.Error()
		s.log.Errorf("building %s failed: %v", b.ID, err)
		coremon.CaptureRunError(err, b.ID, rec.RunID)
	}
	if err := s.sink.RecordRun(ev); err != nil {
		s.log.Errorf("record run %s: %v", rec.RunID, err)
	}
	// the ledger must outlive a canceled batch
	if err := s.runs.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Errorf("run log append: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.promStop != nil {
		s.promStop()
	}
	s.bus.Close()
	s.notifier.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.runs.Close()
}
