package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-bridgeauth/core"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

const maxBodyBytes = 64 << 10

// Handshake is the part of the login coordinator the HTTP API drives.
type Handshake interface {
	SubmitPhone(ctx context.Context, session *core.Session, phone string) core.Response
	SubmitToken(ctx context.Context, session *core.Session, token string) core.Response
	SubmitCode(ctx context.Context, session *core.Session, code string, passwordAlsoProvided bool) *core.Response
	SubmitPassword(ctx context.Context, session *core.Session, password string) core.Response
}

type Handler struct {
	handshake Handshake
	sessions  core.SessionResolver
	responses core.ResponseFactory[JSONResponse]
	logger    core.Logger
}

type Option func(*Handler)

func WithLogger(logger core.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithResponseFactory(factory core.ResponseFactory[JSONResponse]) Option {
	return func(h *Handler) {
		if factory != nil {
			h.responses = factory
		}
	}
}

func NewHandler(handshake Handshake, sessions core.SessionResolver, opts ...Option) *Handler {
	h := &Handler{
		handshake: handshake,
		sessions:  sessions,
		responses: JSONResponseFactory{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.logger = glog.Ensure(h.logger)
	return h
}

// Register mounts the login routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/login/{identity}", func(r chi.Router) {
		r.Post("/request", h.handleRequest)
		r.Post("/token", h.handleToken)
		r.Post("/code", h.handleCode)
		r.Post("/password", h.handlePassword)
	})
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h.Register(r)
	return r
}

type requestCodeRequest struct {
	Phone string `json:"phone"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type codeRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req requestCodeRequest
	session, ok := h.prepare(w, r, &req)
	if !ok {
		return
	}
	writeResponse(w, h.responses, h.handshake.SubmitPhone(r.Context(), session, strings.TrimSpace(req.Phone)))
}

func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	session, ok := h.prepare(w, r, &req)
	if !ok {
		return
	}
	writeResponse(w, h.responses, h.handshake.SubmitToken(r.Context(), session, strings.TrimSpace(req.Token)))
}

// handleCode accepts the password alongside the code so two-factor accounts
// can log in with a single request.
func (h *Handler) handleCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	session, ok := h.prepare(w, r, &req)
	if !ok {
		return
	}
	withPassword := req.Password != ""
	resp := h.handshake.SubmitCode(r.Context(), session, strings.TrimSpace(req.Code), withPassword)
	if resp == nil {
		out := h.handshake.SubmitPassword(r.Context(), session, req.Password)
		resp = &out
	}
	writeResponse(w, h.responses, *resp)
}

func (h *Handler) handlePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	session, ok := h.prepare(w, r, &req)
	if !ok {
		return
	}
	writeResponse(w, h.responses, h.handshake.SubmitPassword(r.Context(), session, req.Password))
}

// prepare resolves the session named in the path and decodes the JSON body
// into payload. It writes the error response itself and reports false on
// failure.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, payload any) (*core.Session, bool) {
	if h == nil || h.handshake == nil || h.sessions == nil {
		writeError(w, core.MapError(errors.New("httpapi: handler is not configured")))
		return nil, false
	}
	identity, err := url.PathUnescape(chi.URLParam(r, "identity"))
	if err != nil || strings.TrimSpace(identity) == "" {
		richErr := core.NewRequestError("Invalid identity in path.")
		h.reject(r, richErr)
		writeError(w, richErr)
		return nil, false
	}
	if richErr := decodeBody(r, payload); richErr != nil {
		h.reject(r, richErr)
		writeError(w, richErr)
		return nil, false
	}

	session, err := h.sessions.ResolveSession(r.Context(), identity)
	if err == nil && session == nil {
		err = core.NewIdentityNotFoundError(identity)
	}
	if err != nil {
		richErr := core.MapError(err)
		h.reject(r, richErr)
		writeError(w, richErr)
		return nil, false
	}
	return session, true
}

func decodeBody(r *http.Request, payload any) *goerrors.Error {
	if r.Body == nil {
		return nil
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		richErr := core.NewRequestError("Malformed JSON body.")
		richErr.Source = err
		return richErr
	}
	return nil
}

func (h *Handler) reject(r *http.Request, richErr *goerrors.Error) {
	h.logger.WithContext(r.Context()).Warn("login request rejected",
		"path", r.URL.Path,
		"status", richErr.Code,
		"errcode", richErr.TextCode,
	)
}
