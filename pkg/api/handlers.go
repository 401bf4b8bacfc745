package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/concordlabs/concord/pkg/middleware"
	"github.com/concordlabs/concord/pkg/storage"
)

// channelResponse is the wire shape of a channel
type channelResponse struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	OwnerID  string   `json:"owner"`
	ServerID string   `json:"server,omitempty"`
	Members  []string `json:"members,omitempty"`
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	channelID := mux.Vars(r)["channelID"]

	channel, err := s.store.GetChannel(r.Context(), channelID)
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "channel not found")
		return
	} else if err != nil {
		s.logger.WithError(err).Error("failed to load channel")
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, channelResponse{
		ID:       channel.ID,
		Kind:     string(channel.Kind),
		OwnerID:  channel.OwnerID,
		ServerID: channel.ServerID,
		Members:  channel.MemberIDs,
	})
}

func (s *Server) handleListChannelMembers(w http.ResponseWriter, r *http.Request) {
	channelID := mux.Vars(r)["channelID"]

	channel, err := s.store.GetChannel(r.Context(), channelID)
	if errors.Is(err, storage.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "channel not found")
		return
	} else if err != nil {
		s.logger.WithError(err).Error("failed to load channel")
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	members := channel.MemberIDs
	if members == nil {
		members = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"members": members})
}

// handleMyPermissions resolves and returns the caller's effective permission
// set for an optional channel/server context given via query parameters.
func (s *Server) handleMyPermissions(w http.ResponseWriter, r *http.Request) {
	var userID *string
	if user := middleware.GetCurrentUser(r); user != nil {
		userID = &user.ID
	}

	channelID := optionalQuery(r, "channel_id")
	serverID := optionalQuery(r, "server_id")

	perms, err := s.resolver.ResolveUserPermissions(r.Context(), channelID, serverID, userID)
	if err != nil {
		s.writeResolutionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"permissions": perms})
}

func optionalQuery(r *http.Request, key string) *string {
	if value := r.URL.Query().Get(key); value != "" {
		return &value
	}
	return nil
}
