// Package httpgate wires an *sm.Handle into the HTTP server path: Server
// gates regular request admission, BarrierHandler gates administrative
// endpoints that must run exclusively, and ControlHandler drives the
// lifecycle operations from inbound requests.
package httpgate

import (
	"net/http"

	"github.com/corestore/smgate/sm"
)

// Server is a server middleware that admits each request through an
// *sm.Handle's Begin/End pair.
type Server struct {
	// Gate is the required Handle guarding admission. A nil Gate causes
	// Then to panic: a required, zero-value-unsafe field fails fast at
	// wiring time rather than per request.
	Gate *sm.Handle

	// Refused is the optional handler invoked when Begin returns
	// sm.Refused. If unset, http.StatusServiceUnavailable is written.
	// Status is a convenient choice here.
	Refused http.Handler
}

// Then decorates next so that every request passes through sm.Begin/sm.End.
func (s Server) Then(next http.Handler) http.Handler {
	if s.Gate == nil {
		panic("httpgate: Server.Gate is required")
	}

	return &serverDecorator{
		Server: s,
		next:   next,
	}
}

type serverDecorator struct {
	Server
	next http.Handler
}

func (sd *serverDecorator) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	switch sm.Begin(sd.Gate) {
	case sm.Granted:
		defer sm.End(sd.Gate)
		sd.next.ServeHTTP(response, request)

	case sm.Refused:
		if sd.Refused != nil {
			sd.Refused.ServeHTTP(response, request)
			return
		}
		response.WriteHeader(http.StatusServiceUnavailable)

	default: // sm.Error: nil Gate, caught above, or future Result values
		response.WriteHeader(http.StatusInternalServerError)
	}
}

// BarrierHandler wraps an administrative http.Handler so that it runs with
// no regular request admitted by Gate in flight, using
// sm.BarrierBegin/sm.BarrierEnd. Unlike Server, a barrier that is refused
// (because the gate is not Opened) writes Refused or 409 Conflict; a caller
// is expected to retry via package retry rather than treat it as permanent.
type BarrierHandler struct {
	Gate    *sm.Handle
	Handler http.Handler
	Refused http.Handler
}

func (b BarrierHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	if sm.BarrierBegin(b.Gate) != sm.Granted {
		if b.Refused != nil {
			b.Refused.ServeHTTP(response, request)
			return
		}
		response.WriteHeader(http.StatusConflict)
		return
	}

	defer sm.BarrierEnd(b.Gate)
	b.Handler.ServeHTTP(response, request)
}
