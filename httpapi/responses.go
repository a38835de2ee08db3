package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-bridgeauth/core"
	goerrors "github.com/goliatone/go-errors"
)

// JSONResponse is a handshake Response ready to be written: the HTTP status
// travels separately from the body.
type JSONResponse struct {
	Status int
	Body   core.Response
}

type JSONResponseFactory struct{}

func (JSONResponseFactory) Build(resp core.Response) JSONResponse {
	status := resp.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return JSONResponse{Status: status, Body: resp}
}

type errorBody struct {
	Error   string `json:"error"`
	ErrCode string `json:"errcode"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeResponse(w http.ResponseWriter, factory core.ResponseFactory[JSONResponse], resp core.Response) {
	out := factory.Build(resp)
	writeJSON(w, out.Status, out.Body)
}

func writeError(w http.ResponseWriter, richErr *goerrors.Error) {
	writeJSON(w, richErr.Code, errorBody{Error: richErr.Message, ErrCode: richErr.TextCode})
}

var _ core.ResponseFactory[JSONResponse] = JSONResponseFactory{}
