// Package infra contains technical adapters: the zerolog logger, metrics
// exporters, the MQTT notifier and Sentry reporting. These packages depend
// only on the interfaces defined in the core packages.
package infra
