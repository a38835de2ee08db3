package core

import (
	"context"
	"strings"
	"sync"
)

type State string

const (
	StateRequest  State = "request"
	StateCode     State = "code"
	StateToken    State = "token"
	StatePassword State = "password"
	StateLoggedIn State = "logged-in"
)

func (s State) String() string { return string(s) }

const (
	ActionLogin              = "Login"
	ActionLoginPasswordEntry = "Login (password entry)"
)

const ErrCodeException = "exception"

// Response is the outcome of a single stage call. It is built fresh for every
// call and never mutated after it is returned.
type Response struct {
	Status   int    `json:"-"`
	State    State  `json:"state"`
	Identity string `json:"identity,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	ErrCode  string `json:"errcode,omitempty"`
}

func (r Response) Failed() bool {
	return strings.TrimSpace(r.ErrCode) != "" || r.Status >= 400
}

type AccountInfo struct {
	ID       string
	Username string
	Bot      bool
}

// Continuation resumes an interactive login with the next user input.
type Continuation func(ctx context.Context, session *Session, input string) Response

type PendingCommand struct {
	Next   Continuation
	Action string
}

// Session is one bridged identity attempting or holding a login. Pending
// command access is serialized per session.
type Session struct {
	identity string
	client   ProviderClient

	mu      sync.Mutex
	pending *PendingCommand
}

func NewSession(identity string, client ProviderClient) *Session {
	return &Session{
		identity: strings.TrimSpace(identity),
		client:   client,
	}
}

func (s *Session) Identity() string {
	if s == nil {
		return ""
	}
	return s.identity
}

func (s *Session) Client() ProviderClient {
	if s == nil {
		return nil
	}
	return s.client
}
