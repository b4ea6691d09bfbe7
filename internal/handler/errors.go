package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pkordes/fahrtenbuch/internal/domain"
)

// ErrorDetail is the machine-readable code plus human-readable message of a
// failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ConflictResponse is the 409 body of POST /addresses. It carries both sides
// of every diverging field so the client can offer a manual resolution.
type ConflictResponse struct {
	Error    ErrorDetail                     `json:"error"`
	Conflict bool                            `json:"conflict"`
	Existing domain.Address                  `json:"existing"`
	Incoming domain.AddressInput             `json:"incoming"`
	Fields   map[string]domain.FieldConflict `json:"fields"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// writeError maps a service error onto the HTTP error taxonomy:
// validation → 400, not found → 404 with notFound as message, conflict → 409,
// anything else → 500 without detail (the cause is logged).
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		verr *domain.ValidationError
		cerr *domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody("validation_error", verr.Message))
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusConflict, ConflictResponse{
			Error:    ErrorDetail{Code: "conflict", Message: "address differs from the stored address with the same label"},
			Conflict: true,
			Existing: cerr.Existing,
			Incoming: cerr.Incoming,
			Fields:   cerr.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", notFound))
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal error"))
	}
}
