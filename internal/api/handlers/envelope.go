// Package handlers holds the JSON envelope and request helpers shared by the
// per-resource handler packages.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/errs"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// SuccessResponse is the envelope for every 2xx reply
type SuccessResponse struct {
	Data       any    `json:"data"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the envelope for every failed request
type ErrorResponse struct {
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	StatusCode int      `json:"statusCode"`
	Success    bool     `json:"success"`
}

// WriteSuccess writes data in the success envelope
func WriteSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, SuccessResponse{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
		Success:    true,
	})
}

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(w, statusCode, ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Errors:     details,
		Success:    false,
	})
}

// HandleServiceError maps a classified service error onto the error
// envelope. Internal causes are logged and never sent to the client.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.KindOf(err)
	status := errs.Status(kind)

	switch kind {
	case errs.KindInternal, errs.KindTimeout:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"kind", kind,
			"error", err)
	case errs.KindCanceled:
		slog.DebugContext(r.Context(), "request canceled by client",
			"method", r.Method,
			"path", r.URL.Path)
	}

	WriteError(w, status, errs.PublicMessage(err), errs.DetailsOf(err)...)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// DecodeJSON reads a bounded JSON body into dst. Unknown fields are ignored;
// an empty or malformed body is a ValidationError.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Validation("request body is required")
		}
		return errs.Validation("invalid request body")
	}
	return nil
}

// PathID parses the named chi URL parameter as an entity id
func PathID(r *http.Request, name string) (uuid.UUID, error) {
	return targets.ParseID(name, chi.URLParam(r, name))
}

// listParams lists the query parameters that are never treated as filters
var listParams = map[string]bool{
	"query":         true,
	"sortBy":        true,
	"sortType":      true,
	"sortDirection": true,
	"page":          true,
	"limit":         true,
	"userId":        true,
}

// ParseSpec maps list query parameters onto a feeds.RawSpec. Any other
// parameter is passed through as a filter; the collection allow list decides
// whether it is accepted.
func ParseSpec(r *http.Request) feeds.RawSpec {
	q := r.URL.Query()

	spec := feeds.RawSpec{
		Query:         q.Get("query"),
		SortBy:        q.Get("sortBy"),
		SortDirection: q.Get("sortType"),
		Page:          q.Get("page"),
		PageSize:      q.Get("limit"),
	}
	if spec.SortDirection == "" {
		spec.SortDirection = q.Get("sortDirection")
	}

	for key, values := range q {
		if listParams[key] || len(values) == 0 {
			continue
		}
		value := strings.TrimSpace(values[0])
		if value == "" {
			continue
		}
		if spec.Filters == nil {
			spec.Filters = make(map[string]string)
		}
		spec.Filters[key] = value
	}
	return spec
}
