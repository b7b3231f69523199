package portal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/cozyhotel-client/internal/checkout"
	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/internal/rooms"
)

type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return hotelapi.ValidationError("body", "Request body must be valid JSON")
	}
	return nil
}

// writeError maps a client error onto the portal's HTTP contract. A redirect
// issued by the pipeline always wins and is reported as 401.
func (s *Server) writeError(w http.ResponseWriter, v *visitor, err error) {
	if v != nil {
		if target := v.nav.Target(); target != "" && hotelapi.IsKind(err, hotelapi.KindAuthenticationRequired) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: hotelapi.ErrorMessage(err), Redirect: target})
			return
		}
	}

	var apiErr *hotelapi.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.Kind == hotelapi.KindValidationFailed:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: apiErr.Message, Field: apiErr.Field})
	case errors.Is(err, rooms.ErrFullyBooked):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "This room type is currently fully booked"})
	case errors.Is(err, checkout.ErrNoCardConfirmer):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Card payments are not available"})
	case errors.As(err, &apiErr) && apiErr.Kind == hotelapi.KindAuthenticationRequired:
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: apiErr.Message, Redirect: s.cfg.LoginPath})
	case errors.As(err, &apiErr) && apiErr.Kind == hotelapi.KindRequestFailed && apiErr.Status >= 400 && apiErr.Status < 500:
		writeJSON(w, apiErr.Status, errorResponse{Error: apiErr.Message})
	case errors.As(err, &apiErr):
		s.logger.Warn("portal: upstream failure", "kind", apiErr.Kind.String(), "status", apiErr.Status, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: hotelapi.ErrorMessage(err)})
	default:
		s.logger.Error("portal: request failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	}
}
