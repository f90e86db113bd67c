package httpgate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/corestore/smgate/sm"
)

type ControlHandlerTestSuite struct {
	suite.Suite
}

func (suite *ControlHandlerTestSuite) none(*http.Request) Action  { return ActionNone }
func (suite *ControlHandlerTestSuite) open(*http.Request) Action  { return ActionOpen }
func (suite *ControlHandlerTestSuite) close(*http.Request) Action { return ActionClose }

func (suite *ControlHandlerTestSuite) TestOpenFromCreated() {
	gate := sm.New()
	response := httptest.NewRecorder()

	ControlHandler{Action: suite.open, Gate: gate}.ServeHTTP(response, httptest.NewRequest("POST", "/admin/open", nil))

	suite.Equal(http.StatusOK, response.Code)
	suite.Equal(sm.Opened, gate.Phase())
}

func (suite *ControlHandlerTestSuite) TestOpenRefusedWhenAlreadyOpen() {
	gate := sm.New()
	sm.OpenBegin(gate)
	sm.OpenEnd(gate)

	response := httptest.NewRecorder()
	ControlHandler{Action: suite.open, Gate: gate}.ServeHTTP(response, httptest.NewRequest("POST", "/admin/open", nil))

	suite.Equal(http.StatusConflict, response.Code)
	suite.Equal(sm.Opened, gate.Phase())
}

func (suite *ControlHandlerTestSuite) TestCloseFromOpened() {
	gate := sm.New()
	sm.OpenBegin(gate)
	sm.OpenEnd(gate)

	response := httptest.NewRecorder()
	ControlHandler{Action: suite.close, Gate: gate}.ServeHTTP(response, httptest.NewRequest("POST", "/admin/close", nil))

	suite.Equal(http.StatusOK, response.Code)
	suite.Equal(sm.Created, gate.Phase())
}

func (suite *ControlHandlerTestSuite) TestNoneIsNoOp() {
	gate := sm.New()
	response := httptest.NewRecorder()

	ControlHandler{Action: suite.none, Gate: gate}.ServeHTTP(response, httptest.NewRequest("GET", "/admin/status", nil))

	suite.Equal(http.StatusNoContent, response.Code)
	suite.Equal(sm.Created, gate.Phase())
}

func (suite *ControlHandlerTestSuite) TestCustomOnRefused() {
	gate := sm.New()
	sm.OpenBegin(gate)
	sm.OpenEnd(gate)

	response := httptest.NewRecorder()
	ControlHandler{
		Action: suite.open,
		Gate:   gate,
		OnRefused: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(599)
		}),
	}.ServeHTTP(response, httptest.NewRequest("POST", "/admin/open", nil))

	suite.Equal(599, response.Code)
}

func TestControlHandler(t *testing.T) {
	suite.Run(t, new(ControlHandlerTestSuite))
}
