package flow

import (
	"context"
	"errors"
	"time"

	"github.com/viant/settingsflow/api"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/internal/clock"
	"github.com/viant/settingsflow/internal/idgen"
	"github.com/viant/settingsflow/store"
	"go.uber.org/zap"
)

// DefaultCloseFormDelay keeps the save confirmation visible before the form closes.
const DefaultCloseFormDelay = 1000 * time.Millisecond

// ErrInvalidSiteLanguage is returned when a site-language save carries a non-string value.
var ErrInvalidSiteLanguage = errors.New("flow: site language must be a string")

// SettingsService loads and saves account settings.
type SettingsService interface {
	GetSettings(ctx context.Context, username string, userRoles []string) (*api.Settings, error)
	PatchSettings(ctx context.Context, username string, commitData api.CommitData) (api.Values, error)
	GetTimeZones(ctx context.Context, country string) ([]api.TimeZone, error)
}

// SiteLanguageService persists and activates the site language.
type SiteLanguageService interface {
	PatchPreferences(ctx context.Context, username string, preferences api.Preferences) error
	PostSetLang(ctx context.Context, lang string) error
}

// Locale switches the active locale and applies its text direction.
type Locale interface {
	SetLocale(lang string) *event.Event[any]
	HandleRTL()
}

// Store is the state the flows read and dispatch into.
type Store interface {
	State() store.State
	Dispatch(ctx context.Context, e *event.Event[any]) error
}

// Handler runs a flow for a trigger event.
type Handler func(ctx context.Context, e *event.Event[any]) error

type Service struct {
	store          Store
	settings       SettingsService
	siteLanguage   SiteLanguageService
	locale         Locale
	closeFormDelay time.Duration
	delay          func(ctx context.Context, d time.Duration) error
	logger         *zap.Logger
}

type Option func(s *Service)

// WithCloseFormDelay overrides the wait between save success and close-form.
func WithCloseFormDelay(d time.Duration) Option {
	return func(s *Service) { s.closeFormDelay = d }
}

// WithDelay replaces the blocking wait used before close-form.
func WithDelay(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) { s.delay = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(st Store, settings SettingsService, siteLanguage SiteLanguageService, locale Locale, opts ...Option) *Service {
	ret := &Service{
		store:          st,
		settings:       settings,
		siteLanguage:   siteLanguage,
		locale:         locale,
		closeFormDelay: DefaultCloseFormDelay,
		delay:          clock.Sleep,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

type flowIDKey struct{}

// WithFlowID tags every event the flow started with ctx dispatches.
func WithFlowID(ctx context.Context, flowID string) context.Context {
	return context.WithValue(ctx, flowIDKey{}, flowID)
}

// FlowID returns the flow invocation id carried by ctx.
func FlowID(ctx context.Context) string {
	id, _ := ctx.Value(flowIDKey{}).(string)
	return id
}

func ensureFlowID(ctx context.Context) context.Context {
	if FlowID(ctx) != "" {
		return ctx
	}
	return WithFlowID(ctx, idgen.New())
}

func (s *Service) put(ctx context.Context, e *event.Event[any]) error {
	return s.store.Dispatch(ctx, e.WithFlowID(FlowID(ctx)))
}

// all runs calls concurrently and returns the first error, or nil once every
// call succeeded. Calls still running after a failure are not cancelled;
// their results are discarded.
func all(ctx context.Context, calls ...func(context.Context) error) error {
	results := make(chan error, len(calls))
	for _, call := range calls {
		go func() { results <- call(ctx) }()
	}
	for range calls {
		select {
		case err := <-results:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
