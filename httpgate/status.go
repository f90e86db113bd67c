package httpgate

import "net/http"

// Status is a trivial http.Handler that writes a fixed status code and no
// body. It is the default choice for Server.Refused, BarrierHandler.Refused
// and ControlHandler.OnRefused when a caller wants something more specific
// than the package defaults without writing a one-off handler.
type Status int

func (s Status) ServeHTTP(response http.ResponseWriter, _ *http.Request) {
	response.WriteHeader(int(s))
}
