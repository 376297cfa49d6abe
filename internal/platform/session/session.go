package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/platform/api"
)

// Role is one of the fixed role identifiers issued by the backend.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleMedico    Role = "MEDICO"
	RoleEnfermero Role = "ENFERMERO"
	RoleTecnico   Role = "TECNICO"
)

// ParseRole normalizes a raw claim value ("ROLE_MEDICO", "medico") into a
// known role. Unknown values yield ok=false.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimPrefix(strings.ToUpper(raw), "ROLE_")))
	switch r {
	case RoleAdmin, RoleMedico, RoleEnfermero, RoleTecnico:
		return r, true
	}
	return "", false
}

// Claims is the token payload the backend issues: subject is the login
// email, roles carry the Spring-style authority names, nombre is the
// display name.
type Claims struct {
	jwt.RegisteredClaims
	Roles  []string `json:"roles"`
	Nombre string   `json:"nombre"`
}

var ErrInvalidCredentials = errors.New("credenciales incorrectas")

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service owns the token lifecycle: set on login, read on every request via
// the store, cleared on logout, decode failure, expiry or 401.
type Service struct {
	store  *Store
	client *api.Client
	log    zerolog.Logger
}

func NewService(store *Store, client *api.Client, logger zerolog.Logger) *Service {
	return &Service{store: store, client: client, log: logger}
}

// Login exchanges credentials for a token and persists it. Nothing is
// persisted on any failure path.
func (s *Service) Login(ctx context.Context, email, password string) error {
	token, err := s.client.PostText(ctx, "/api/auth/login", credentials{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrForbidden) {
			return ErrInvalidCredentials
		}
		return err
	}

	token = strings.TrimSpace(token)
	// The backend replies with the bare JWT as text; anything else is a
	// broken response, not a session.
	if !strings.HasPrefix(token, "ey") {
		return fmt.Errorf("la respuesta del login no es un token válido")
	}
	if _, err := decode(token); err != nil {
		return fmt.Errorf("no se pudo decodificar el token: %w", err)
	}

	if err := s.store.SetToken(token); err != nil {
		return err
	}
	s.log.Info().Str("email", email).Msg("sesión iniciada")
	return nil
}

// IsAuthenticated reports whether a non-expired, decodable token is present.
// An expired or undecodable token is cleared as a side effect: the next read
// of the store finds nothing.
func (s *Service) IsAuthenticated() bool {
	claims := s.currentClaims()
	return claims != nil
}

// Role returns the decoded role, or "" when no valid session exists.
func (s *Service) Role() Role {
	claims := s.currentClaims()
	if claims == nil {
		return ""
	}
	for _, raw := range claims.Roles {
		if r, ok := ParseRole(raw); ok {
			return r
		}
	}
	return ""
}

// DisplayName returns the decoded display name, falling back to the subject
// (the login email); "" when no valid session exists.
func (s *Service) DisplayName() string {
	claims := s.currentClaims()
	if claims == nil {
		return ""
	}
	if claims.Nombre != "" {
		return claims.Nombre
	}
	return claims.Subject
}

// Logout unconditionally clears the stored token.
func (s *Service) Logout() {
	s.store.Clear()
	s.log.Info().Msg("sesión cerrada")
}

// RememberPath records the view to return to after the next login.
func (s *Service) RememberPath(path string) {
	if err := s.store.SetReturnPath(path); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo guardar la ruta de retorno")
	}
}

// ConsumeReturnPath returns the remembered view path and clears the slot.
func (s *Service) ConsumeReturnPath() string {
	return s.store.ConsumeReturnPath()
}

// currentClaims decodes the stored token, applying lazy invalidation: decode
// failures and expired tokens clear the store and count as "no session".
func (s *Service) currentClaims() *Claims {
	token := s.store.Token()
	if token == "" {
		return nil
	}

	claims, err := decode(token)
	if err != nil {
		s.log.Warn().Err(err).Msg("token almacenado no decodificable, limpiando sesión")
		s.store.Clear()
		return nil
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		s.log.Info().Time("exp", claims.ExpiresAt.Time).Msg("token expirado, limpiando sesión")
		s.store.Clear()
		return nil
	}
	return claims
}

// decode extracts the claims without verifying the signature. The client
// holds no signing key; the backend is the authority and rejects tampered
// tokens with a 401 on the first request.
func decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
