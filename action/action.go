// Package action defines the account-settings event types and their payloads.
//
// Async operations follow the ACCOUNT_SETTINGS__<NAME> naming, with the
// trigger under the base name and outcomes under the __BEGIN, __SUCCESS and
// __FAILURE suffixes.
package action

import (
	"github.com/viant/settingsflow/api"
	"github.com/viant/settingsflow/event"
)

const prefix = "ACCOUNT_SETTINGS__"

// Async names a trigger and its outcome types.
type Async event.Type

func (a Async) Base() event.Type    { return event.Type(a) }
func (a Async) Begin() event.Type   { return event.Type(a + "__BEGIN") }
func (a Async) Success() event.Type { return event.Type(a + "__SUCCESS") }
func (a Async) Failure() event.Type { return event.Type(a + "__FAILURE") }

const (
	FetchSettingsType  Async = prefix + "FETCH_SETTINGS"
	SaveSettingsType   Async = prefix + "SAVE_SETTINGS"
	FetchTimeZonesType Async = prefix + "FETCH_TIME_ZONES"

	OpenFormType                 event.Type = prefix + "OPEN_FORM"
	CloseFormType                event.Type = prefix + "CLOSE_FORM"
	UpdateDraftType              event.Type = prefix + "UPDATE_DRAFT"
	ResetDraftsType              event.Type = prefix + "RESET_DRAFTS"
	SavePreviousSiteLanguageType event.Type = prefix + "SAVE_PREVIOUS_SITE_LANGUAGE"
	SetLocaleType                event.Type = "I18N__SET_LOCALE"
)

// SiteLanguageFormID selects the site-language save path.
const SiteLanguageFormID = "siteLanguage"

// SaveRequest identifies the field or group being saved and its new value(s).
type SaveRequest struct {
	FormID       string      `json:"formId"`
	CommitValues interface{} `json:"commitValues"`
}

// TimeZoneQuery is the fetch-time-zones trigger payload.
type TimeZoneQuery struct {
	Country string `json:"country"`
}

type FetchSettingsSuccessPayload struct {
	Values                  api.Values         `json:"values"`
	ThirdPartyAuthProviders []api.AuthProvider `json:"thirdPartyAuthProviders"`
	ProfileDataManager      string             `json:"profileDataManager"`
	TimeZones               []api.TimeZone     `json:"timeZones"`
}

type SaveSettingsSuccessPayload struct {
	Values       api.Values     `json:"values"`
	CommitValues api.CommitData `json:"commitValues"`
}

// FailurePayload carries either a message or per-field validation errors.
type FailurePayload struct {
	Message     string          `json:"message,omitempty"`
	FieldErrors api.FieldErrors `json:"fieldErrors,omitempty"`
}

type TimeZonesPayload struct {
	TimeZones []api.TimeZone `json:"timeZones"`
	Country   string         `json:"country"`
}

type FormPayload struct {
	FormID string `json:"formId"`
}

type DraftPayload struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

type LocalePayload struct {
	Locale string `json:"locale"`
}

type PreviousSiteLanguagePayload struct {
	PreviousSiteLanguage string `json:"previousSiteLanguage"`
}

func FetchSettings() *event.Event[any] {
	return event.New(FetchSettingsType.Base(), nil)
}

func FetchSettingsBegin() *event.Event[any] {
	return event.New(FetchSettingsType.Begin(), nil)
}

func FetchSettingsSuccess(payload FetchSettingsSuccessPayload) *event.Event[any] {
	return event.New(FetchSettingsType.Success(), payload)
}

func FetchSettingsFailure(message string) *event.Event[any] {
	return event.New(FetchSettingsType.Failure(), FailurePayload{Message: message})
}

func SaveSettings(formID string, commitValues interface{}) *event.Event[any] {
	return event.New(SaveSettingsType.Base(), SaveRequest{FormID: formID, CommitValues: commitValues})
}

func SaveSettingsBegin() *event.Event[any] {
	return event.New(SaveSettingsType.Begin(), nil)
}

func SaveSettingsSuccess(values api.Values, commitValues api.CommitData) *event.Event[any] {
	return event.New(SaveSettingsType.Success(), SaveSettingsSuccessPayload{Values: values, CommitValues: commitValues})
}

// SaveSettingsFailure reports a save failure; pass either a message or field errors.
func SaveSettingsFailure(payload FailurePayload) *event.Event[any] {
	return event.New(SaveSettingsType.Failure(), payload)
}

func FetchTimeZones(country string) *event.Event[any] {
	return event.New(FetchTimeZonesType.Base(), TimeZoneQuery{Country: country})
}

func FetchTimeZonesSuccess(timeZones []api.TimeZone, country string) *event.Event[any] {
	return event.New(FetchTimeZonesType.Success(), TimeZonesPayload{TimeZones: timeZones, Country: country})
}

func OpenForm(formID string) *event.Event[any] {
	return event.New(OpenFormType, FormPayload{FormID: formID})
}

func CloseForm(formID string) *event.Event[any] {
	return event.New(CloseFormType, FormPayload{FormID: formID})
}

func UpdateDraft(name string, value interface{}) *event.Event[any] {
	return event.New(UpdateDraftType, DraftPayload{Name: name, Value: value})
}

func ResetDrafts() *event.Event[any] {
	return event.New(ResetDraftsType, nil)
}

func SetLocale(locale string) *event.Event[any] {
	return event.New(SetLocaleType, LocalePayload{Locale: locale})
}

func SavePreviousSiteLanguage(previousSiteLanguage string) *event.Event[any] {
	return event.New(SavePreviousSiteLanguageType, PreviousSiteLanguagePayload{PreviousSiteLanguage: previousSiteLanguage})
}
