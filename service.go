package settingsflow

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/settingsflow/api"
	"github.com/viant/settingsflow/coordinator"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/flow"
	"github.com/viant/settingsflow/internal/logger"
	"github.com/viant/settingsflow/locale"
	"github.com/viant/settingsflow/messaging"
	"github.com/viant/settingsflow/messaging/fs"
	"github.com/viant/settingsflow/messaging/memory"
	"github.com/viant/settingsflow/progress"
	"github.com/viant/settingsflow/store"
	"github.com/viant/settingsflow/tracing"
	"go.uber.org/zap"
)

type Service struct {
	config             *Config
	logger             *zap.Logger
	fs                 afs.Service
	events             *event.Service
	client             *api.Client
	settings           flow.SettingsService
	siteLanguage       flow.SiteLanguageService
	locale             *locale.Manager
	store              *store.Store
	flows              *flow.Service
	coordinator        *coordinator.Service
	listeners          []store.Listener
	flowOptions        []flow.Option
	coordinatorOptions []coordinator.Option
	initErr            error
}

// New wires the store, bus, flows and coordinator described by cfg.
func New(cfg *Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	copied := *cfg
	ret := &Service{config: &copied}
	for _, option := range options {
		option(ret)
	}
	if ret.initErr != nil {
		return nil, ret.initErr
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() (err error) {
	cfg := s.config
	if s.logger == nil {
		if s.logger, err = logger.New(cfg.Log.Level, cfg.Log.Format); err != nil {
			return err
		}
	}
	if cfg.Tracing.Enabled {
		if err = tracing.Init(cfg.Tracing.ServiceName, cfg.Tracing.ServiceVersion, cfg.Tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if err = s.ensureUser(); err != nil {
		return err
	}
	if s.events, err = s.newEventService(); err != nil {
		return err
	}
	if err = s.ensureClients(); err != nil {
		return err
	}

	s.locale = locale.New(cfg.User.Locale, locale.WithDirectionListener(func(lang string, direction locale.Direction) {
		s.logger.Info("locale direction applied", zap.String("locale", lang), zap.String("direction", string(direction)))
	}))
	storeOptions := []store.Option{store.WithBus(s.events.Bus())}
	for _, listener := range s.listeners {
		storeOptions = append(storeOptions, store.WithListener(listener))
	}
	s.store = store.New(store.State{
		Username:     cfg.User.Username,
		Roles:        cfg.User.Roles,
		SiteLanguage: store.SiteLanguage{SavedValue: cfg.User.SiteLanguage},
		Locale:       cfg.User.Locale,
	}, storeOptions...)

	flowOptions := append([]flow.Option{
		flow.WithCloseFormDelay(cfg.Flow.CloseFormDelay),
		flow.WithLogger(s.logger.Named("flow")),
	}, s.flowOptions...)
	s.flows = flow.New(s.store, s.settings, s.siteLanguage, s.locale, flowOptions...)

	coordinatorOptions := append([]coordinator.Option{
		coordinator.WithHandlers(s.flows.Handlers()),
		coordinator.WithFailFast(cfg.Coordinator.FailFast),
		coordinator.WithPollInterval(cfg.Coordinator.PollInterval),
		coordinator.WithLogger(s.logger.Named("coordinator")),
	}, s.coordinatorOptions...)
	if s.coordinator, err = coordinator.New(s.events.Bus(), coordinatorOptions...); err != nil {
		return err
	}
	s.store.Subscribe(s.coordinator.Observe)
	return nil
}

func (s *Service) ensureUser() error {
	user := &s.config.User
	if user.Username != "" {
		return nil
	}
	tokenUser, err := api.UserFromToken(s.config.API.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to resolve user from token: %w", err)
	}
	user.Username = tokenUser.Username
	if len(user.Roles) == 0 {
		user.Roles = tokenUser.Roles
	}
	s.logger.Debug("user resolved from token", zap.String("username", user.Username), zap.Strings("roles", user.Roles))
	return nil
}

func (s *Service) newEventService() (*event.Service, error) {
	cfg := s.config.Queue
	var options []event.Option
	switch cfg.Vendor {
	case messaging.VendorFs:
		if s.fs != nil {
			options = append(options, event.WithFileSystem(s.fs))
		}
		options = append(options, event.WithFsQueueConfig(func(name string) fs.Config {
			return fs.Config{BaseURL: url.Join(cfg.BaseURL, name), KeepCompleted: cfg.KeepCompleted}
		}))
	default:
		options = append(options, event.WithMemoryQueueConfig(func(name string) memory.Config {
			return memory.Config{QueueBuffer: cfg.Buffer, DeadLetter: true}
		}))
	}
	return event.NewService(cfg.Vendor, options...)
}

func (s *Service) ensureClients() error {
	if s.settings != nil && s.siteLanguage != nil {
		return nil
	}
	cfg := s.config
	clientOptions := []api.Option{api.WithTimeout(cfg.API.Timeout)}
	if cfg.API.AuthToken != "" {
		clientOptions = append(clientOptions, api.WithAuthToken(cfg.API.AuthToken))
	}
	if cfg.Cache.MaxCountries > 0 {
		cache, err := api.NewTimeZoneCache(cfg.Cache.MaxCountries)
		if err != nil {
			return fmt.Errorf("failed to create time zone cache: %w", err)
		}
		clientOptions = append(clientOptions, api.WithTimeZoneCache(cache, cfg.Cache.TTL))
	}
	s.client = api.New(cfg.API.BaseURL, clientOptions...)
	if s.settings == nil {
		s.settings = s.client
	}
	if s.siteLanguage == nil {
		s.siteLanguage = s.client
	}
	return nil
}

// Run starts the coordinator and blocks until ctx is done or it stops on error.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("coordinator started", zap.String("queue", string(s.events.Vendor())))
	err := s.coordinator.Run(ctx)
	s.logger.Info("coordinator stopped", zap.Error(err))
	return err
}

// Dispatch applies e to the store; trigger events start their flow once Run consumes them.
func (s *Service) Dispatch(ctx context.Context, e *event.Event[any]) error {
	return s.store.Dispatch(ctx, e)
}

// State returns the current state snapshot.
func (s *Service) State() store.State {
	return s.store.State()
}

func (s *Service) Store() *store.Store {
	return s.store
}

func (s *Service) Flows() *flow.Service {
	return s.flows
}

func (s *Service) Progress() *progress.Progress {
	return s.coordinator.Progress()
}

// Idle reports whether no trigger is waiting and no flow is running.
func (s *Service) Idle() bool {
	return s.coordinator.Progress().Idle()
}

// Close releases the HTTP client cache and flushes the logger.
func (s *Service) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	_ = s.logger.Sync()
	return nil
}
