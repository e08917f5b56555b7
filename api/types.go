package api

// Keys carried beside Values rather than inside them.
const (
	KeyThirdPartyAuthProviders = "thirdPartyAuthProviders"
	KeyProfileDataManager      = "profileDataManager"
	KeyTimeZones               = "timeZones"
	KeyCountry                 = "country"
)

var derivedKeys = []string{KeyThirdPartyAuthProviders, KeyProfileDataManager, KeyTimeZones}

// Values maps a settings field name to its value.
type Values map[string]interface{}

// String returns the value under key when it is a non-empty string.
func (v Values) String(key string) string {
	if s, ok := v[key].(string); ok {
		return s
	}
	return ""
}

// Country returns the country code, or "" when absent.
func (v Values) Country() string {
	return v.String(KeyCountry)
}

// CommitData is the partial-update payload {formId: commitValues}.
type CommitData map[string]interface{}

// NewCommitData builds the single-field commit payload for a form.
func NewCommitData(formID string, commitValues interface{}) CommitData {
	return CommitData{formID: commitValues}
}

// Values returns the commit data as settings values.
func (c CommitData) Values() Values {
	ret := make(Values, len(c))
	for k, v := range c {
		ret[k] = v
	}
	return ret
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

type AuthProvider struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Connected     bool   `json:"connected"`
	AcceptsLogins bool   `json:"accepts_logins"`
	ConnectURL    string `json:"connect_url,omitempty"`
	DisconnectURL string `json:"disconnect_url,omitempty"`
}

type TimeZone struct {
	TimeZone    string `json:"time_zone"`
	Description string `json:"description"`
}

// Preferences holds the site-language preference update.
type Preferences struct {
	PrefLang string `json:"pref-lang"`
}

// Settings is the settings-retrieval result: the editable values plus the
// derived fields the form renders separately.
type Settings struct {
	Values                  Values
	ThirdPartyAuthProviders []AuthProvider
	ProfileDataManager      string
	TimeZones               []TimeZone
}
