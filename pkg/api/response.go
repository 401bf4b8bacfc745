package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/concordlabs/concord/pkg/permissions"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) writeResolutionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, permissions.ErrChannelNotFound):
		writeDetail(w, http.StatusNotFound, "channel not found")
	case permissions.IsPermissionError(err):
		s.logger.WithError(err).Warn("api permission error")
		writeDetail(w, http.StatusForbidden, "Not enough permissions")
	default:
		s.logger.WithError(err).Error("permission resolution failed")
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}
