package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
)

const maxBodyBytes = 1 << 16

var (
	errInvalidJSON  = errors.New("invalid JSON data")
	errBodyTooLarge = errors.New("request body is too large")
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{domain.ErrCartNotFound, http.StatusNotFound, "cart_not_found"},
	{domain.ErrOutOfStock, http.StatusConflict, "out_of_stock"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{domain.ErrUnknownSortKey, http.StatusBadRequest, "unknown_sort_key"},
	{domain.ErrPopularityUnavailable, http.StatusServiceUnavailable, "popularity_unavailable"},
	{errBodyTooLarge, http.StatusRequestEntityTooLarge, "body_too_large"},
	{errInvalidJSON, http.StatusBadRequest, "invalid_json"},
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// writeError maps core errors to statuses. Unknown errors are logged and
// answered with 500 without leaking the cause.
func writeError(log *slog.Logger, w http.ResponseWriter, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			log.Warn("request rejected", "code", m.code, "err", err)
			writeJSON(log, w, m.status, ErrorResponse{
				Error: m.target.Error(), Code: m.code,
			})
			return
		}
	}

	log.Error("failed to handle request", "err", err)
	writeJSON(log, w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal error", Code: "internal",
	})
}

func writeBadRequest(
	log *slog.Logger, w http.ResponseWriter, code, msg string, err error,
) {
	log.Warn("bad request", "code", code, "err", err)
	writeJSON(log, w, http.StatusBadRequest, ErrorResponse{Error: msg, Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.Join(errBodyTooLarge, err)
		}
		return errors.Join(errInvalidJSON, err)
	}
	return nil
}
