package settingsflow_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/settingsflow"
	"github.com/viant/settingsflow/action"
	"github.com/viant/settingsflow/api"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/messaging"
	"github.com/viant/settingsflow/store"
	"go.uber.org/zap"
)

type settingsServer struct {
	mu    sync.Mutex
	langs []string
	prefs []map[string]interface{}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newSettingsServer(t *testing.T) (*settingsServer, *httptest.Server) {
	s := &settingsServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/v1/accounts/jdoe", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			var patch map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&patch)
			writeJSON(w, patch)
			return
		}
		writeJSON(w, map[string]interface{}{"username": "jdoe", "name": "John", "country": "US"})
	})
	mux.HandleFunc("/api/user/v1/preferences/jdoe", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			var patch map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&patch)
			s.mu.Lock()
			s.prefs = append(s.prefs, patch)
			s.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, map[string]string{"pref-lang": "en"})
	})
	mux.HandleFunc("/api/third_party_auth/v0/providers/user/jdoe/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []api.AuthProvider{})
	})
	mux.HandleFunc("/api/user/v1/preferences/time_zones/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("country_code") {
		case "US":
			writeJSON(w, []api.TimeZone{{TimeZone: "America/New_York", Description: "Eastern"}})
		case "CA":
			writeJSON(w, []api.TimeZone{{TimeZone: "America/Toronto", Description: "Toronto"}})
		default:
			writeJSON(w, []api.TimeZone{{TimeZone: "UTC", Description: "UTC"}})
		}
	})
	mux.HandleFunc("/i18n/setlang/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		s.mu.Lock()
		s.langs = append(s.langs, form.Get("language"))
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return s, server
}

func newConfig(baseURL string) *settingsflow.Config {
	cfg := settingsflow.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.User.Username = "jdoe"
	cfg.Flow.CloseFormDelay = 10 * time.Millisecond
	cfg.Coordinator.PollInterval = time.Millisecond
	return cfg
}

type eventLog struct {
	mu    sync.Mutex
	types []event.Type
}

func (l *eventLog) listener(_ store.State, e *event.Event[any]) {
	l.mu.Lock()
	l.types = append(l.types, e.Type())
	l.mu.Unlock()
}

func (l *eventLog) snapshot() []event.Type {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]event.Type(nil), l.types...)
}

func startService(t *testing.T, cfg *settingsflow.Config, options ...settingsflow.Option) *settingsflow.Service {
	srv, err := settingsflow.New(cfg, append([]settingsflow.Option{settingsflow.WithLogger(zap.NewNop())}, options...)...)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		_ = srv.Close()
	})
	return srv
}

func TestService_FetchAndSave(t *testing.T) {
	server, httpServer := newSettingsServer(t)
	log := &eventLog{}
	srv := startService(t, newConfig(httpServer.URL), settingsflow.WithListener(log.listener))
	ctx := context.Background()

	require.NoError(t, srv.Dispatch(ctx, action.FetchSettings()))
	assert.Eventually(t, func() bool {
		state := srv.State()
		return state.Loaded && state.TimeZonesCountry == "US" && srv.Idle()
	}, 2*time.Second, 5*time.Millisecond)
	state := srv.State()
	assert.Equal(t, "John", state.Values.String("name"))
	assert.Equal(t, "en", state.SiteLanguage.SavedValue)
	assert.Equal(t, []api.TimeZone{{TimeZone: "America/New_York", Description: "Eastern"}}, state.CountryTimeZones)

	require.NoError(t, srv.Dispatch(ctx, action.OpenForm("country")))
	require.NoError(t, srv.Dispatch(ctx, action.SaveSettings("country", "CA")))
	assert.Eventually(t, func() bool {
		state := srv.State()
		return state.OpenFormID == "" && state.TimeZonesCountry == "CA" && srv.Idle()
	}, 2*time.Second, 5*time.Millisecond)
	state = srv.State()
	assert.Equal(t, "CA", state.Values.Country())
	assert.Equal(t, "CA", state.ConfirmationValues.Country())

	require.NoError(t, srv.Dispatch(ctx, action.OpenForm(action.SiteLanguageFormID)))
	require.NoError(t, srv.Dispatch(ctx, action.SaveSettings(action.SiteLanguageFormID, "ar")))
	assert.Eventually(t, func() bool {
		return srv.State().OpenFormID == "" && srv.Idle()
	}, 2*time.Second, 5*time.Millisecond)
	state = srv.State()
	assert.Equal(t, "ar", state.Locale)
	assert.Equal(t, "ar", state.SiteLanguage.SavedValue)
	assert.Equal(t, "en", state.PreviousSiteLanguage)

	server.mu.Lock()
	assert.Equal(t, []string{"ar"}, server.langs)
	assert.Equal(t, []map[string]interface{}{{"pref-lang": "ar"}}, server.prefs)
	server.mu.Unlock()

	types := log.snapshot()
	assert.Equal(t, []event.Type{
		action.SaveSettingsType.Base(),
		action.SaveSettingsType.Begin(),
		action.SetLocaleType,
		action.SavePreviousSiteLanguageType,
		action.SaveSettingsType.Success(),
		action.CloseFormType,
	}, types[len(types)-6:])
}

type rejectingSettings struct{}

func (rejectingSettings) GetSettings(ctx context.Context, username string, roles []string) (*api.Settings, error) {
	return nil, &api.Error{StatusCode: http.StatusServiceUnavailable, Message: "service unavailable"}
}

func (rejectingSettings) PatchSettings(ctx context.Context, username string, commitData api.CommitData) (api.Values, error) {
	return nil, &api.Error{StatusCode: http.StatusBadRequest, FieldErrors: api.FieldErrors{"name": "Name is required"}}
}

func (rejectingSettings) GetTimeZones(ctx context.Context, country string) ([]api.TimeZone, error) {
	return nil, nil
}

func TestService_Failures(t *testing.T) {
	var mu sync.Mutex
	var reported []event.Type
	cfg := newConfig("http://localhost")
	srv := startService(t, cfg,
		settingsflow.WithSettingsService(rejectingSettings{}),
		settingsflow.WithOnError(func(trigger *event.Event[any], err error) {
			mu.Lock()
			reported = append(reported, trigger.Type())
			mu.Unlock()
		}))
	ctx := context.Background()

	require.NoError(t, srv.Dispatch(ctx, action.FetchSettings()))
	require.NoError(t, srv.Dispatch(ctx, action.SaveSettings("name", "")))
	assert.Eventually(t, func() bool {
		state := srv.State()
		return state.LoadingError != "" && state.SaveState == store.SaveStateError && srv.Idle()
	}, 2*time.Second, 5*time.Millisecond)

	state := srv.State()
	assert.Equal(t, "service unavailable", state.LoadingError)
	assert.Equal(t, api.FieldErrors{"name": "Name is required"}, state.Errors)
	snapshot := srv.Progress().Snapshot()
	assert.Equal(t, 1, snapshot.FailedFlows)
	assert.Equal(t, 1, snapshot.CompletedFlows)
	mu.Lock()
	assert.Equal(t, []event.Type{action.FetchSettingsType.Base()}, reported)
	mu.Unlock()
}

func TestService_FsQueue(t *testing.T) {
	_, httpServer := newSettingsServer(t)
	fs := afs.New()
	baseURL := "mem://localhost/settingsflow-test/queue"
	_ = fs.Delete(context.Background(), baseURL)

	cfg := newConfig(httpServer.URL)
	cfg.Queue.Vendor = messaging.VendorFs
	cfg.Queue.BaseURL = baseURL
	srv := startService(t, cfg, settingsflow.WithFileSystem(fs))

	require.NoError(t, srv.Dispatch(context.Background(), action.FetchSettings()))
	assert.Eventually(t, func() bool {
		state := srv.State()
		return state.Loaded && state.TimeZonesCountry == "US" && srv.Idle()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := settingsflow.New(settingsflow.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.baseURL is required")
}

func TestNew_UserFromToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"preferred_username": "jdoe",
		"roles":              []string{"enterprise_learner:7a1c"},
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	cfg := settingsflow.DefaultConfig()
	cfg.API.BaseURL = "http://localhost"
	cfg.API.AuthToken = token
	srv, err := settingsflow.New(cfg, settingsflow.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer func() { _ = srv.Close() }()

	state := srv.State()
	assert.Equal(t, "jdoe", state.Username)
	assert.Equal(t, []string{"enterprise_learner"}, state.Roles)
	assert.Empty(t, cfg.User.Username)

	cfg.API.AuthToken = "not-a-token"
	_, err = settingsflow.New(cfg, settingsflow.WithLogger(zap.NewNop()))
	assert.Error(t, err)
}
