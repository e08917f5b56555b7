// Package settingsflow coordinates the asynchronous workflows of an
// account-settings form: loading settings, saving edited fields, fetching
// dependent time zones and switching the site language.
//
// Trigger events are dispatched into the store; the coordinator consumes the
// event bus and runs the matching flow, which calls the settings API and
// dispatches its outcome events back into the store:
//
//	cfg, _ := settingsflow.LoadConfig(ctx, "config.yaml")
//	srv, _ := settingsflow.New(cfg)
//	go srv.Run(ctx)
//	_ = srv.Dispatch(ctx, action.FetchSettings())
//
// See the flow and coordinator sub-packages for the flow semantics.
package settingsflow
