package settingsflow

import (
	"github.com/viant/afs"
	"github.com/viant/settingsflow/coordinator"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/flow"
	"github.com/viant/settingsflow/store"
	"github.com/viant/settingsflow/tracing"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Option func(s *Service)

// WithLogger replaces the logger built from the log config section.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithListener observes every applied event and the resulting state.
func WithListener(listener store.Listener) Option {
	return func(s *Service) { s.listeners = append(s.listeners, listener) }
}

// WithSettingsService replaces the HTTP settings client.
func WithSettingsService(service flow.SettingsService) Option {
	return func(s *Service) { s.settings = service }
}

// WithSiteLanguageService replaces the HTTP site-language client.
func WithSiteLanguageService(service flow.SiteLanguageService) Option {
	return func(s *Service) { s.siteLanguage = service }
}

// WithSubFlow runs an external routine (site language, password reset,
// third-party auth) alongside the coordinator.
func WithSubFlow(name string, fn coordinator.SubFlow) Option {
	return func(s *Service) {
		s.coordinatorOptions = append(s.coordinatorOptions, coordinator.WithSubFlow(name, fn))
	}
}

// WithOnError receives every error propagated from a flow.
func WithOnError(fn func(trigger *event.Event[any], err error)) Option {
	return func(s *Service) {
		s.coordinatorOptions = append(s.coordinatorOptions, coordinator.WithOnError(fn))
	}
}

// WithFileSystem sets the file system backing the fs queue vendor.
func WithFileSystem(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithFlowOptions passes additional options to the flow service.
func WithFlowOptions(opts ...flow.Option) Option {
	return func(s *Service) { s.flowOptions = append(s.flowOptions, opts...) }
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter. The first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.initErr = err
		}
	}
}
