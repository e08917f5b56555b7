package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/settingsflow/action"
	"github.com/viant/settingsflow/api"
	"github.com/viant/settingsflow/event"
	"github.com/viant/settingsflow/messaging"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		name   string
		init   State
		events []*event.Event[any]
		expect func(t *testing.T, s State)
	}{
		{
			name:   "fetch begin",
			init:   State{LoadingError: "old"},
			events: []*event.Event[any]{action.FetchSettingsBegin()},
			expect: func(t *testing.T, s State) {
				assert.True(t, s.Loading)
				assert.False(t, s.Loaded)
				assert.Empty(t, s.LoadingError)
			},
		},
		{
			name: "fetch success",
			init: State{Values: api.Values{"name": "Jane"}},
			events: []*event.Event[any]{action.FetchSettingsSuccess(action.FetchSettingsSuccessPayload{
				Values:                  api.Values{"country": "US", "prefLang": "es"},
				ThirdPartyAuthProviders: []api.AuthProvider{{ID: "google"}},
				ProfileDataManager:      "Acme",
				TimeZones:               []api.TimeZone{{TimeZone: "UTC"}},
			})},
			expect: func(t *testing.T, s State) {
				assert.True(t, s.Loaded)
				assert.Equal(t, api.Values{"name": "Jane", "country": "US", "prefLang": "es"}, s.Values)
				assert.Equal(t, "Acme", s.ProfileDataManager)
				assert.Equal(t, []api.AuthProvider{{ID: "google"}}, s.ThirdPartyAuthProviders)
				assert.Equal(t, []api.TimeZone{{TimeZone: "UTC"}}, s.TimeZones)
				assert.Equal(t, "es", s.SiteLanguage.SavedValue)
			},
		},
		{
			name:   "fetch failure",
			init:   State{Loading: true},
			events: []*event.Event[any]{action.FetchSettingsFailure("boom")},
			expect: func(t *testing.T, s State) {
				assert.False(t, s.Loading)
				assert.Equal(t, "boom", s.LoadingError)
			},
		},
		{
			name: "save lifecycle",
			init: State{Values: api.Values{"country": "FR"}},
			events: []*event.Event[any]{
				action.OpenForm("country"),
				action.UpdateDraft("country", "US"),
				action.SaveSettingsBegin(),
				action.SaveSettingsSuccess(api.Values{"country": "US"}, api.CommitData{"country": "US"}),
			},
			expect: func(t *testing.T, s State) {
				assert.Equal(t, SaveStateComplete, s.SaveState)
				assert.Equal(t, "country", s.OpenFormID)
				assert.Nil(t, s.Drafts)
				assert.Equal(t, api.Values{"country": "US"}, s.Values)
				assert.Equal(t, api.Values{"country": "US"}, s.ConfirmationValues)
			},
		},
		{
			name: "close matching form",
			init: State{OpenFormID: "country", SaveState: SaveStateComplete},
			events: []*event.Event[any]{
				action.CloseForm("country"),
			},
			expect: func(t *testing.T, s State) {
				assert.Empty(t, s.OpenFormID)
				assert.Equal(t, SaveStateNone, s.SaveState)
			},
		},
		{
			name:   "close other form is ignored",
			init:   State{OpenFormID: "name", Drafts: api.Values{"name": "J"}},
			events: []*event.Event[any]{action.CloseForm("country")},
			expect: func(t *testing.T, s State) {
				assert.Equal(t, "name", s.OpenFormID)
				assert.Equal(t, api.Values{"name": "J"}, s.Drafts)
			},
		},
		{
			name: "save field errors",
			events: []*event.Event[any]{
				action.SaveSettingsBegin(),
				action.SaveSettingsFailure(action.FailurePayload{FieldErrors: api.FieldErrors{"name": "required"}}),
			},
			expect: func(t *testing.T, s State) {
				assert.Equal(t, SaveStateError, s.SaveState)
				assert.Equal(t, api.FieldErrors{"name": "required"}, s.Errors)
				assert.Empty(t, s.SaveError)
			},
		},
		{
			name: "site language",
			init: State{SiteLanguage: SiteLanguage{SavedValue: "en"}},
			events: []*event.Event[any]{
				action.SetLocale("fr"),
				action.SavePreviousSiteLanguage("en"),
				action.SaveSettingsSuccess(api.Values{"siteLanguage": "fr"}, api.CommitData{"siteLanguage": "fr"}),
			},
			expect: func(t *testing.T, s State) {
				assert.Equal(t, "fr", s.Locale)
				assert.Equal(t, "en", s.PreviousSiteLanguage)
				assert.Equal(t, "fr", s.SiteLanguage.SavedValue)
			},
		},
		{
			name:   "country time zones",
			events: []*event.Event[any]{action.FetchTimeZonesSuccess([]api.TimeZone{{TimeZone: "America/Chicago"}}, "US")},
			expect: func(t *testing.T, s State) {
				assert.Equal(t, []api.TimeZone{{TimeZone: "America/Chicago"}}, s.CountryTimeZones)
				assert.Equal(t, "US", s.TimeZonesCountry)
			},
		},
		{
			name:   "triggers leave state unchanged",
			init:   State{Username: "jdoe"},
			events: []*event.Event[any]{action.FetchSettings(), action.SaveSettings("name", "x"), action.FetchTimeZones("US")},
			expect: func(t *testing.T, s State) {
				assert.Equal(t, State{Username: "jdoe"}, s)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := tc.init
			for _, e := range tc.events {
				var err error
				state, err = Reduce(state, e)
				require.NoError(t, err)
			}
			tc.expect(t, state)
		})
	}
}

func TestReduce_DoesNotMutatePrevious(t *testing.T) {
	before := State{Values: api.Values{"country": "FR"}}
	after, err := Reduce(before, action.SaveSettingsSuccess(api.Values{"country": "US"}, api.CommitData{"country": "US"}))
	require.NoError(t, err)
	assert.Equal(t, "FR", before.Values.Country())
	assert.Equal(t, "US", after.Values.Country())
}

func TestStore_Dispatch(t *testing.T) {
	events, err := event.NewService(messaging.VendorMemory)
	require.NoError(t, err)

	var observed []event.Type
	s := New(State{Username: "jdoe"}, WithBus(events.Bus()), WithListener(func(state State, e *event.Event[any]) {
		observed = append(observed, e.Type())
	}))
	ctx := context.Background()

	require.NoError(t, s.Dispatch(ctx, action.FetchSettingsBegin()))
	require.NoError(t, s.Dispatch(ctx, action.FetchSettingsFailure("down")))
	assert.Equal(t, "down", s.State().LoadingError)
	assert.Equal(t, []event.Type{action.FetchSettingsType.Begin(), action.FetchSettingsType.Failure()}, observed)

	first, err := events.Bus().Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, action.FetchSettingsType.Begin(), first.Type())
	second, err := events.Bus().Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, action.FetchSettingsType.Failure(), second.Type())

	assert.Error(t, s.Dispatch(ctx, nil))
	assert.Error(t, s.Dispatch(ctx, event.New(action.OpenFormType, []interface{}{"bad"})))
	assert.Equal(t, "down", s.State().LoadingError)
}
