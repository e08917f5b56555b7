package store

import (
	"github.com/viant/settingsflow/action"
	"github.com/viant/settingsflow/event"
)

// Reduce returns the state after applying e. Unknown event types leave the
// state unchanged.
func Reduce(state State, e *event.Event[any]) (State, error) {
	switch e.Type() {
	case action.FetchSettingsType.Begin():
		state.Loading = true
		state.Loaded = false
		state.LoadingError = ""

	case action.FetchSettingsType.Success():
		payload, err := event.DataAs[action.FetchSettingsSuccessPayload](e)
		if err != nil {
			return state, err
		}
		state.Values = merge(state.Values, payload.Values)
		state.ThirdPartyAuthProviders = payload.ThirdPartyAuthProviders
		state.ProfileDataManager = payload.ProfileDataManager
		state.TimeZones = payload.TimeZones
		state.Loading = false
		state.Loaded = true
		state.LoadingError = ""
		if lang := payload.Values.String("prefLang"); lang != "" {
			state.SiteLanguage.SavedValue = lang
		}

	case action.FetchSettingsType.Failure():
		payload, err := event.DataAs[action.FailurePayload](e)
		if err != nil {
			return state, err
		}
		state.Loading = false
		state.Loaded = false
		state.LoadingError = payload.Message

	case action.OpenFormType:
		payload, err := event.DataAs[action.FormPayload](e)
		if err != nil {
			return state, err
		}
		state.OpenFormID = payload.FormID
		state.Drafts = nil
		state.Errors = nil
		state.SaveError = ""
		state.SaveState = SaveStateNone

	case action.CloseFormType:
		payload, err := event.DataAs[action.FormPayload](e)
		if err != nil {
			return state, err
		}
		if payload.FormID == state.OpenFormID {
			state.OpenFormID = ""
			state.Drafts = nil
			state.Errors = nil
			state.SaveError = ""
			state.SaveState = SaveStateNone
		}

	case action.UpdateDraftType:
		payload, err := event.DataAs[action.DraftPayload](e)
		if err != nil {
			return state, err
		}
		state.Drafts = merge(state.Drafts, map[string]interface{}{payload.Name: payload.Value})
		state.SaveState = SaveStateNone

	case action.ResetDraftsType:
		state.Drafts = nil

	case action.SaveSettingsType.Begin():
		state.SaveState = SaveStatePending
		state.Errors = nil
		state.SaveError = ""

	case action.SaveSettingsType.Success():
		payload, err := event.DataAs[action.SaveSettingsSuccessPayload](e)
		if err != nil {
			return state, err
		}
		state.Values = merge(state.Values, payload.Values)
		state.ConfirmationValues = merge(state.ConfirmationValues, payload.CommitValues)
		state.Drafts = nil
		state.Errors = nil
		state.SaveState = SaveStateComplete
		if lang := payload.Values.String(action.SiteLanguageFormID); lang != "" {
			state.SiteLanguage.SavedValue = lang
		}

	case action.SaveSettingsType.Failure():
		payload, err := event.DataAs[action.FailurePayload](e)
		if err != nil {
			return state, err
		}
		state.SaveState = SaveStateError
		state.Errors = payload.FieldErrors
		state.SaveError = payload.Message

	case action.FetchTimeZonesType.Success():
		payload, err := event.DataAs[action.TimeZonesPayload](e)
		if err != nil {
			return state, err
		}
		state.CountryTimeZones = payload.TimeZones
		state.TimeZonesCountry = payload.Country

	case action.SavePreviousSiteLanguageType:
		payload, err := event.DataAs[action.PreviousSiteLanguagePayload](e)
		if err != nil {
			return state, err
		}
		state.PreviousSiteLanguage = payload.PreviousSiteLanguage

	case action.SetLocaleType:
		payload, err := event.DataAs[action.LocalePayload](e)
		if err != nil {
			return state, err
		}
		state.Locale = payload.Locale
	}
	return state, nil
}
