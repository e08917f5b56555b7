package flow

import (
	"context"

	"github.com/viant/settingsflow/action"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/tracing"
)

// FetchTimeZones loads the time zones of country. Errors are returned
// without dispatching a failure.
func (s *Service) FetchTimeZones(ctx context.Context, country string) (err error) {
	ctx = ensureFlowID(ctx)
	ctx, span := tracing.StartSpan(ctx, "flow.FetchTimeZones")
	span.WithAttributes(map[string]string{"country": country})
	defer func() { tracing.EndSpan(span, err) }()

	timeZones, err := s.settings.GetTimeZones(ctx, country)
	if err != nil {
		return err
	}
	return s.put(ctx, action.FetchTimeZonesSuccess(timeZones, country))
}

// HandleFetchTimeZones runs FetchTimeZones for a fetch-time-zones trigger.
func (s *Service) HandleFetchTimeZones(ctx context.Context, e *event.Event[any]) error {
	query, err := event.DataAs[action.TimeZoneQuery](e)
	if err != nil {
		return err
	}
	return s.FetchTimeZones(WithFlowID(ctx, e.Context.ID), query.Country)
}

// Handlers returns the dispatch table of trigger types to flows.
func (s *Service) Handlers() map[event.Type]Handler {
	return map[event.Type]Handler{
		action.FetchSettingsType.Base():  s.HandleFetchSettings,
		action.SaveSettingsType.Base():   s.HandleSaveSettings,
		action.FetchTimeZonesType.Base(): s.HandleFetchTimeZones,
	}
}
