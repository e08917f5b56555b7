package flow

import (
	"context"

	"github.com/viant/settingsflow/action"
	"github.com/viant/settingsflow/api"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/store"
	"github.com/viant/settingsflow/tracing"
	"go.uber.org/zap"
)

// FetchSettings loads the settings of the current user. Failures are
// dispatched and then returned.
func (s *Service) FetchSettings(ctx context.Context) (err error) {
	ctx = ensureFlowID(ctx)
	ctx, span := tracing.StartSpan(ctx, "flow.FetchSettings")
	defer func() { tracing.EndSpan(span, err) }()

	if err = s.fetchSettings(ctx); err == nil {
		return nil
	}
	if putErr := s.put(ctx, action.FetchSettingsFailure(api.MessageOf(err))); putErr != nil {
		s.logger.Warn("failed to dispatch fetch failure", zap.String("flowID", FlowID(ctx)), zap.Error(putErr))
	}
	return err
}

func (s *Service) fetchSettings(ctx context.Context) error {
	if err := s.put(ctx, action.FetchSettingsBegin()); err != nil {
		return err
	}
	state := s.store.State()
	settings, err := s.settings.GetSettings(ctx, store.Username(state), store.UserRoles(state))
	if err != nil {
		return err
	}
	if settings == nil {
		settings = &api.Settings{}
	}
	if country := settings.Values.Country(); country != "" {
		if err = s.put(ctx, action.FetchTimeZones(country)); err != nil {
			return err
		}
	}
	return s.put(ctx, action.FetchSettingsSuccess(action.FetchSettingsSuccessPayload{
		Values:                  settings.Values,
		ThirdPartyAuthProviders: settings.ThirdPartyAuthProviders,
		ProfileDataManager:      settings.ProfileDataManager,
		TimeZones:               settings.TimeZones,
	}))
}

// HandleFetchSettings runs FetchSettings for a fetch-settings trigger.
func (s *Service) HandleFetchSettings(ctx context.Context, e *event.Event[any]) error {
	return s.FetchSettings(WithFlowID(ctx, e.Context.ID))
}
