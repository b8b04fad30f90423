package monitoring

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/occsched/core/model"
)

type recorder struct {
	errs []error
	tags []map[string]string
}

func (r *recorder) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recorder) CapturePanic(any)    {}
func (r *recorder) Flush(time.Duration) {}

func TestKind(t *testing.T) {
	assert.Equal(t, KindResource, Kind(fmt.Errorf("load: %w", &model.ResourceFormatError{Path: "p"})))
	assert.Equal(t, KindConfiguration, Kind(&model.ConfigurationError{Field: "f"}))
	assert.Equal(t, KindCanceled, Kind(context.Canceled))
	assert.Equal(t, KindInternal, Kind(errors.New("x")))
}

func TestCaptureRunError(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})

	CaptureRunError(nil, "b1", "r1")
	CaptureRunError(context.Canceled, "b1", "r1")
	CaptureRunError(&model.ConfigurationError{Field: "hvac.seasons"}, "b1", "r1")
	assert.Len(t, rec.errs, 1)
	assert.Equal(t, map[string]string{"error_kind": KindConfiguration, "building": "b1", "run_id": "r1"}, rec.tags[0])
}
