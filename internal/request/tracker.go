// Package request issues tagged calls against the remote store and tracks
// their loading, error, and result state until they are completed.
package request

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mmcdole/larder/internal/domain"
	"github.com/oklog/ulid/v2"
)

// GenericErrorMessage is shown for every failed call regardless of cause
const GenericErrorMessage = "Something went wrong!"

// Intent labels what a call's completion should do to local state
type Intent string

// CallID identifies one issued call
type CallID string

// Request describes a call to issue.
// Extra is the correlation payload handed back unchanged on completion.
type Request struct {
	Method string
	Path   string
	Body   any
	Extra  any
	Intent Intent
}

// Call is an issued request awaiting completion
type Call struct {
	ID     CallID
	Method string
	Path   string
	Body   any
	Extra  any
	Intent Intent
}

// Result is the outcome of executing a call
type Result struct {
	Call Call
	Data json.RawMessage
	Err  error
}

// OK reports whether the call succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Tracker tracks in-flight calls by id.
//
// Send, Complete, Fail and Clear mutate tracker state and must be called from
// the goroutine that owns it (the TUI update loop). Execute reads only the
// call and the transport, so it may run anywhere.
type Tracker struct {
	transport domain.Transport
	logger    *slog.Logger

	pending  map[CallID]Call
	errMsg   string
	hasError bool
	data     json.RawMessage
}

// NewTracker creates a tracker issuing calls through transport
func NewTracker(transport domain.Transport, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		transport: transport,
		logger:    logger,
		pending:   make(map[CallID]Call),
	}
}

// Send registers a new call and returns it for execution.
// Any error left over from a previous call is cleared.
func (t *Tracker) Send(req Request) Call {
	call := Call{
		ID:     CallID(ulid.Make().String()),
		Method: req.Method,
		Path:   req.Path,
		Body:   req.Body,
		Extra:  req.Extra,
		Intent: req.Intent,
	}
	t.pending[call.ID] = call
	t.errMsg = ""
	t.hasError = false

	t.logger.Debug("call sent", "id", call.ID, "intent", call.Intent, "method", call.Method, "path", call.Path)
	return call
}

// Execute performs the HTTP call for an issued call
func (t *Tracker) Execute(ctx context.Context, call Call) Result {
	data, err := t.transport.Do(ctx, call.Method, call.Path, call.Body)
	return Result{Call: call, Data: data, Err: err}
}

// Complete consumes the pending call for res. It returns false when the call
// is unknown or was already completed, in which case state is untouched.
func (t *Tracker) Complete(res Result) bool {
	if _, ok := t.pending[res.Call.ID]; !ok {
		t.logger.Warn("completion for unknown call", "id", res.Call.ID, "intent", res.Call.Intent)
		return false
	}
	delete(t.pending, res.Call.ID)

	if res.Err != nil {
		t.logger.Error("call failed", "id", res.Call.ID, "intent", res.Call.Intent, "error", res.Err)
		t.setError()
		return true
	}

	t.data = res.Data
	t.logger.Debug("call completed", "id", res.Call.ID, "intent", res.Call.Intent)
	return true
}

// Fail marks a completed call as failed after the fact, e.g. when its
// success body turns out to be unusable.
func (t *Tracker) Fail(call Call, err error) {
	t.logger.Error("call result rejected", "id", call.ID, "intent", call.Intent, "error", err)
	t.setError()
}

func (t *Tracker) setError() {
	t.errMsg = GenericErrorMessage
	t.hasError = true
}

// Clear dismisses the current error. In-flight calls are not affected.
func (t *Tracker) Clear() {
	t.errMsg = ""
	t.hasError = false
}

// IsLoading reports whether any call is still pending
func (t *Tracker) IsLoading() bool {
	return len(t.pending) > 0
}

// Pending returns the number of calls awaiting completion
func (t *Tracker) Pending() int {
	return len(t.pending)
}

// ErrorMessage returns the error to display, if any
func (t *Tracker) ErrorMessage() (string, bool) {
	return t.errMsg, t.hasError
}

// Data returns the body of the most recent successful call
func (t *Tracker) Data() json.RawMessage {
	return t.data
}
