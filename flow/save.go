package flow

import (
	"context"
	"fmt"

	"github.com/viant/settingsflow/action"
	"github.com/viant/settingsflow/api"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/store"
	"github.com/viant/settingsflow/tracing"
	"go.uber.org/zap"
)

// SaveSettings persists request. Field validation failures are dispatched
// and recovered; any other failure is dispatched and returned.
func (s *Service) SaveSettings(ctx context.Context, request action.SaveRequest) (err error) {
	ctx = ensureFlowID(ctx)
	ctx, span := tracing.StartSpan(ctx, "flow.SaveSettings")
	span.WithAttributes(map[string]string{"form.id": request.FormID})
	defer func() { tracing.EndSpan(span, err) }()

	saveErr := s.saveSettings(ctx, request)
	if saveErr == nil {
		return nil
	}
	if fieldErrors, ok := api.FieldErrorsOf(saveErr); ok {
		s.logger.Debug("settings rejected", zap.String("formID", request.FormID), zap.Any("fieldErrors", fieldErrors))
		return s.put(ctx, action.SaveSettingsFailure(action.FailurePayload{FieldErrors: fieldErrors}))
	}
	if putErr := s.put(ctx, action.SaveSettingsFailure(action.FailurePayload{Message: api.MessageOf(saveErr)})); putErr != nil {
		s.logger.Warn("failed to dispatch save failure", zap.String("flowID", FlowID(ctx)), zap.Error(putErr))
	}
	return saveErr
}

func (s *Service) saveSettings(ctx context.Context, request action.SaveRequest) error {
	if err := s.put(ctx, action.SaveSettingsBegin()); err != nil {
		return err
	}
	username := store.Username(s.store.State())
	commitData := api.NewCommitData(request.FormID, request.CommitValues)

	var savedValues api.Values
	if request.FormID == action.SiteLanguageFormID {
		if err := s.saveSiteLanguage(ctx, username, request.CommitValues); err != nil {
			return err
		}
		savedValues = commitData.Values()
	} else {
		var err error
		if savedValues, err = s.settings.PatchSettings(ctx, username, commitData); err != nil {
			return err
		}
	}

	if err := s.put(ctx, action.SaveSettingsSuccess(savedValues, commitData)); err != nil {
		return err
	}
	if country := savedValues.Country(); country != "" {
		if err := s.put(ctx, action.FetchTimeZones(country)); err != nil {
			return err
		}
	}
	if err := s.delay(ctx, s.closeFormDelay); err != nil {
		return err
	}
	return s.put(ctx, action.CloseForm(request.FormID))
}

func (s *Service) saveSiteLanguage(ctx context.Context, username string, commitValues interface{}) error {
	lang, ok := commitValues.(string)
	if !ok {
		return fmt.Errorf("%w, got %T", ErrInvalidSiteLanguage, commitValues)
	}
	previous := store.SiteLanguageOf(s.store.State())
	err := all(ctx,
		func(ctx context.Context) error {
			return s.siteLanguage.PatchPreferences(ctx, username, api.Preferences{PrefLang: lang})
		},
		func(ctx context.Context) error {
			return s.siteLanguage.PostSetLang(ctx, lang)
		},
	)
	if err != nil {
		return err
	}
	if err = s.put(ctx, s.locale.SetLocale(lang)); err != nil {
		return err
	}
	if err = s.put(ctx, action.SavePreviousSiteLanguage(previous.SavedValue)); err != nil {
		return err
	}
	s.locale.HandleRTL()
	return nil
}

// HandleSaveSettings runs SaveSettings for a save-settings trigger.
func (s *Service) HandleSaveSettings(ctx context.Context, e *event.Event[any]) error {
	request, err := event.DataAs[action.SaveRequest](e)
	if err != nil {
		return err
	}
	return s.SaveSettings(WithFlowID(ctx, e.Context.ID), request)
}
