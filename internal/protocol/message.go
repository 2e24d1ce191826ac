package protocol

import (
	"encoding/json"
	"strings"
)

// Event keys
const (
	KeyQueryParams = "queryStringParameters"
	KeyAction      = "action"
)

// Event is the raw invocation payload. It is either an API Gateway style
// request carrying queryStringParameters or a direct invoke with a top-level
// action field.
type Event map[string]any

// Action returns the lower-cased action. A non-null queryStringParameters
// always wins over a top-level action, even when it has no action key.
// Only case is normalized; whitespace is kept.
func (e Event) Action() Action {
	if qs, ok := e[KeyQueryParams]; ok && qs != nil {
		return Action(strings.ToLower(stringField(qs, KeyAction)))
	}
	if v, ok := e[KeyAction]; ok && v != nil {
		s, _ := v.(string)
		return Action(strings.ToLower(s))
	}
	return ""
}

func stringField(m any, key string) string {
	switch params := m.(type) {
	case map[string]any:
		s, _ := params[key].(string)
		return s
	case map[string]string:
		return params[key]
	default:
		return ""
	}
}

// Response is the envelope returned to the host. Body holds JSON text.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type MessageBody struct {
	Message string `json:"message"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

func NewMessage(status int, msg string) Response {
	b, _ := json.Marshal(MessageBody{Message: msg})
	return Response{StatusCode: status, Body: string(b)}
}

func NewError(status int, err error) Response {
	b, _ := json.Marshal(ErrorBody{Error: err.Error()})
	return Response{StatusCode: status, Body: string(b)}
}
