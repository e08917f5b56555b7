// Package flow implements the account-settings coordination routines:
// settings fetch, settings save (with the site-language branch) and
// time-zone fetch.
//
// Every flow dispatches its outcome events through the store in emission
// order. A flow that fails reports the failure as an event and then returns
// the error; only save failures carrying field errors are recovered.
package flow
