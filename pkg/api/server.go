package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/concordlabs/concord/pkg/middleware"
	"github.com/concordlabs/concord/pkg/permissions"
	"github.com/concordlabs/concord/pkg/storage"
)

// Server is the HTTP API server
type Server struct {
	router   *mux.Router
	store    storage.Store
	resolver *permissions.Resolver
	logger   *logrus.Logger
}

// NewServer creates the API server and wires its routes. auth may be nil,
// in which case requests carry no authenticated user.
func NewServer(store storage.Store, resolver *permissions.Resolver, auth *middleware.AuthMiddleware, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		router:   mux.NewRouter(),
		store:    store,
		resolver: resolver,
		logger:   logger,
	}

	s.router.Use(mux.MiddlewareFunc(middleware.RequestID))
	if auth != nil {
		s.router.Use(auth.Handler)
	}

	view := permissions.RequirePermissions(resolver, permissions.ChannelsView)
	listMembers := permissions.RequirePermissions(resolver, permissions.ChannelsMembersList)

	s.router.Handle("/channels/{channelID}", view(http.HandlerFunc(s.handleGetChannel))).Methods(http.MethodGet)
	s.router.Handle("/channels/{channelID}/members", listMembers(http.HandlerFunc(s.handleListChannelMembers))).Methods(http.MethodGet)
	s.router.HandleFunc("/users/me/permissions", s.handleMyPermissions).Methods(http.MethodGet)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
