package store

import "github.com/viant/settingsflow/api"

// SaveState tracks the progress of the current save.
type SaveState string

const (
	SaveStateNone     SaveState = ""
	SaveStatePending  SaveState = "pending"
	SaveStateComplete SaveState = "complete"
	SaveStateError    SaveState = "error"
)

// SiteLanguage is the site-language record of the current user.
type SiteLanguage struct {
	SavedValue string `json:"savedValue"`
}

// State is the account-settings state. Reducers never mutate maps or slices
// of a previous State in place, so snapshots can be shared freely.
type State struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`

	Loading      bool   `json:"loading"`
	Loaded       bool   `json:"loaded"`
	LoadingError string `json:"loadingError,omitempty"`

	Values             api.Values      `json:"values,omitempty"`
	Drafts             api.Values      `json:"drafts,omitempty"`
	ConfirmationValues api.Values      `json:"confirmationValues,omitempty"`
	Errors             api.FieldErrors `json:"errors,omitempty"`
	SaveError          string          `json:"saveError,omitempty"`
	SaveState          SaveState       `json:"saveState,omitempty"`
	OpenFormID         string          `json:"openFormId,omitempty"`

	ThirdPartyAuthProviders []api.AuthProvider `json:"thirdPartyAuthProviders,omitempty"`
	ProfileDataManager      string             `json:"profileDataManager,omitempty"`
	TimeZones               []api.TimeZone     `json:"timeZones,omitempty"`
	CountryTimeZones        []api.TimeZone     `json:"countryTimeZones,omitempty"`
	TimeZonesCountry        string             `json:"timeZonesCountry,omitempty"`

	SiteLanguage         SiteLanguage `json:"siteLanguage"`
	PreviousSiteLanguage string       `json:"previousSiteLanguage,omitempty"`
	Locale               string       `json:"locale,omitempty"`
}

// Username returns the current username.
func Username(s State) string { return s.Username }

// UserRoles returns the roles of the current user.
func UserRoles(s State) []string { return s.Roles }

// SiteLanguageOf returns the current site-language record.
func SiteLanguageOf(s State) SiteLanguage { return s.SiteLanguage }

func merge(base api.Values, updates map[string]interface{}) api.Values {
	ret := make(api.Values, len(base)+len(updates))
	for k, v := range base {
		ret[k] = v
	}
	for k, v := range updates {
		ret[k] = v
	}
	return ret
}
