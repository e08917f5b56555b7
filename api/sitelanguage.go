package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// PatchPreferences stores the site-language preference of username.
func (c *Client) PatchPreferences(ctx context.Context, username string, preferences Preferences) error {
	return c.patchJSON(ctx, "/api/user/v1/preferences/"+url.PathEscape(username), preferences, nil)
}

// PostSetLang activates lang for the current session.
func (c *Client) PostSetLang(ctx context.Context, lang string) error {
	form := url.Values{"language": []string{lang}}
	_, err := c.doRequest(ctx, http.MethodPost, "/i18n/setlang/", contentTypeForm, strings.NewReader(form.Encode()))
	return err
}
