package command

import (
	"strings"

	"github.com/goliatone/go-bridgeauth/core"
)

const (
	promptPhoneOrToken = "Please send your phone number (in international format) or your bot token."
	promptCode         = "Please send the login code you received."
	promptPassword     = "Please send your two-factor authentication password."
	replyCancelled     = "Login cancelled."
	replyNothingToStop = "No login in progress."
)

// Reply is the text answer for one interactive step. Response is set when the
// step reached the login handshake.
type Reply struct {
	Identity string
	Text     string
	Response *core.Response
}

// TextResponseFactory renders handshake responses as chat replies.
type TextResponseFactory struct{}

func (TextResponseFactory) Build(resp core.Response) string {
	if resp.Failed() {
		return strings.TrimSpace(resp.Error)
	}
	switch resp.State {
	case core.StateCode:
		return joinReply(resp.Message, promptCode)
	case core.StatePassword:
		return joinReply(resp.Message, promptPassword)
	case core.StateLoggedIn:
		if username := strings.TrimSpace(resp.Username); username != "" {
			return "Successfully logged in as @" + username + "."
		}
		return "Successfully logged in."
	default:
		return strings.TrimSpace(resp.Message)
	}
}

func joinReply(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " ")
}

var _ core.ResponseFactory[string] = TextResponseFactory{}
