package httpgate

import (
	"net/http"

	"github.com/corestore/smgate/sm"
)

// Action is the lifecycle operation a ControlHandler request asks of a Gate.
type Action int

const (
	// ActionNone performs no lifecycle transition.
	ActionNone Action = iota

	// ActionOpen runs OpenBegin/OpenEnd.
	ActionOpen

	// ActionClose runs CloseBegin/CloseEnd.
	ActionClose
)

// ControlHandler is an http.Handler that drives a Gate's lifecycle from
// inbound requests, e.g. a readiness probe calling open on startup or an
// orchestrator preStop hook calling close on shutdown.
type ControlHandler struct {
	// Action is the required strategy for determining what lifecycle
	// operation, if any, a request should trigger.
	Action func(*http.Request) Action

	// Gate is the required Handle to drive.
	Gate *sm.Handle

	// OnRefused is invoked if the requested transition's *_begin call
	// returns sm.Refused (e.g. open requested on an already-open gate).
	// If unset, a 409 Conflict is written.
	OnRefused http.Handler
}

func (ch ControlHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	var result sm.Result

	switch ch.Action(request) {
	case ActionOpen:
		result = sm.OpenBegin(ch.Gate)
		if result == sm.Granted {
			sm.OpenEnd(ch.Gate)
		}

	case ActionClose:
		result = sm.CloseBegin(ch.Gate)
		if result == sm.Granted {
			sm.CloseEnd(ch.Gate)
		}

	default:
		response.WriteHeader(http.StatusNoContent)
		return
	}

	if result == sm.Granted {
		response.WriteHeader(http.StatusOK)
		return
	}

	if ch.OnRefused != nil {
		ch.OnRefused.ServeHTTP(response, request)
		return
	}
	response.WriteHeader(http.StatusConflict)
}
