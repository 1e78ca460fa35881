package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"stylemart/internal/genai"
	"stylemart/internal/imagesearch"
	"stylemart/internal/stylist"
)

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single JSON object from the capped request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return &stylist.InputError{Field: "body", Message: "Invalid request body"}
	}
	return nil
}

var errBodyTooLarge = fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)

// writeError maps error kinds onto statuses. Upstream failures never get
// here for generative endpoints; those return a fallback payload instead.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *stylist.InputError
	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, apiError{Error: inputErr.Message})
	case errors.Is(err, imagesearch.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Query parameter is required"})
	case errors.Is(err, errBodyTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, apiError{Error: err.Error()})
	case errors.Is(err, genai.ErrNotConfigured):
		h.logger.Error("missing credential", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
	}
}
