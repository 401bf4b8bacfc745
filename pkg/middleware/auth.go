package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/sirupsen/logrus"

	"github.com/concordlabs/concord/pkg/contextkeys"
)

// User is the authenticated caller attached to the request context
type User struct {
	ID       string
	Username string
}

// AuthMiddleware authenticates requests. With an OIDC issuer configured it
// verifies bearer tokens; without one it trusts the X-User-ID header, which
// is only acceptable behind a gateway or in development.
type AuthMiddleware struct {
	verifier *oidc.IDTokenVerifier
	optional bool // if true, unauthenticated requests pass through
	logger   *logrus.Logger
}

// NewAuthMiddleware creates authentication middleware. issuer may be empty,
// selecting trusted-header mode.
func NewAuthMiddleware(ctx context.Context, issuer, clientID string, optional bool, logger *logrus.Logger) (*AuthMiddleware, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	m := &AuthMiddleware{
		optional: optional,
		logger:   logger,
	}

	if issuer != "" {
		provider, err := oidc.NewProvider(ctx, issuer)
		if err != nil {
			return nil, err
		}
		m.verifier = provider.Verifier(&oidc.Config{ClientID: clientID})
	}

	return m, nil
}

// Handler wraps an HTTP handler with authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticate(r)
		if err != nil {
			m.unauthorizedResponse(w, err.Error())
			return
		}
		if user == nil {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			m.unauthorizedResponse(w, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), contextkeys.CurrentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*User, error) {
	if m.verifier == nil {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			return nil, nil
		}
		return &User{ID: userID, Username: r.Header.Get("X-Username")}, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errInvalidAuthHeader
	}

	token, err := m.verifier.Verify(r.Context(), parts[1])
	if err != nil {
		m.logger.WithError(err).Warn("token verification failed")
		return nil, errInvalidToken
	}

	var claims struct {
		Subject  string `json:"sub"`
		Username string `json:"preferred_username"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, errInvalidToken
	}

	return &User{ID: claims.Subject, Username: claims.Username}, nil
}

func (m *AuthMiddleware) unauthorizedResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"` + message + `"}`))
}

// GetCurrentUser extracts the authenticated user from the request, or nil
func GetCurrentUser(r *http.Request) *User {
	value := r.Context().Value(contextkeys.CurrentUserKey)
	if value == nil {
		return nil
	}
	user, ok := value.(*User)
	if !ok {
		return nil
	}
	return user
}
