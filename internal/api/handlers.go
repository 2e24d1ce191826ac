package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/faradayfan/instance-power/internal/protocol"
)

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	ev, err := eventFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	resp, err := s.dispatcher.Handle(r.Context(), ev)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

// eventFromRequest builds the event API Gateway would send: query parameters
// go under queryStringParameters (omitted when there are none) and a JSON
// object body is merged in as top-level fields.
func eventFromRequest(r *http.Request) (protocol.Event, error) {
	ev := protocol.Event{}

	if r.Body != nil && r.Method == http.MethodPost {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		for k, v := range body {
			ev[k] = v
		}
	}

	if q := r.URL.Query(); len(q) > 0 {
		params := make(map[string]any, len(q))
		for k := range q {
			params[k] = q.Get(k)
		}
		ev[protocol.KeyQueryParams] = params
	}

	return ev, nil
}
