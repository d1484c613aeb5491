package api

import (
	"encoding/json"
	"net/http"
)

// Dispatch serves one request without an HTTP server, for the Lambda entry
// point. It returns the status and the JSON body.
func (s *Service) Dispatch(method, path string, body []byte) (int, []byte) {
	var (
		data any
		err  error
	)
	switch {
	case path == PathHealth && method == http.MethodGet:
		return encode(http.StatusOK, map[string]string{"status": "ok"})
	case method != http.MethodPost:
		return encode(http.StatusNotFound, Envelope{Code: CodeNotFound, Message: "not found"})
	case path == PathOptimizeDay:
		data, err = s.OptimizeDay(body)
	case path == PathOptimizeWeek:
		data, err = s.OptimizeWeek(body)
	case path == PathMetrics:
		data, err = s.Metrics(body)
	default:
		return encode(http.StatusNotFound, Envelope{Code: CodeNotFound, Message: "not found"})
	}
	if err != nil {
		return encode(failure(err))
	}
	return encode(http.StatusOK, ok(data))
}

func encode(status int, v any) (int, []byte) {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(Envelope{Code: CodeInternal, Message: internalMessage})
		return http.StatusInternalServerError, b
	}
	return status, b
}
