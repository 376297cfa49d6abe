package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/platform/api"
)

func mintToken(t *testing.T, roles []string, nombre string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ana@clinica.test",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Roles:  roles,
		Nombre: nombre,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func newTestService(t *testing.T, handler http.Handler) (*Service, *Store) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "session"))

	var client *api.Client
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		client = api.New(srv.URL, 5*time.Second, store, zerolog.Nop())
	}
	return NewService(store, client, zerolog.Nop()), store
}

func TestLogin_PersistsValidToken(t *testing.T) {
	var token string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(token))
	})

	svc, store := newTestService(t, handler)
	token = mintToken(t, []string{"ROLE_MEDICO"}, "Ana", time.Now().Add(time.Hour))

	if err := svc.Login(context.Background(), "ana@clinica.test", "secreta"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Token() != token {
		t.Error("expected token persisted after login")
	}
	if !svc.IsAuthenticated() {
		t.Error("expected authenticated session after login")
	}
}

func TestLogin_RejectedCredentialsLeaveStoreEmpty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	svc, store := newTestService(t, handler)

	err := svc.Login(context.Background(), "ana@clinica.test", "incorrecta")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.Token() != "" {
		t.Error("expected empty store after rejected login")
	}
}

func TestLogin_NonTokenResponseNotPersisted(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>proxy error</html>"))
	})

	svc, store := newTestService(t, handler)

	if err := svc.Login(context.Background(), "ana@clinica.test", "secreta"); err == nil {
		t.Fatal("expected error for a non-token response")
	}
	if store.Token() != "" {
		t.Error("expected empty store after broken login response")
	}
}

func TestIsAuthenticated_ExpiredTokenClearedLazily(t *testing.T) {
	svc, store := newTestService(t, nil)
	store.SetToken(mintToken(t, []string{"ADMIN"}, "Ana", time.Now().Add(-10*time.Second)))

	if svc.IsAuthenticated() {
		t.Error("expected expired token to be rejected")
	}
	if store.Token() != "" {
		t.Error("expected expired token cleared from storage")
	}
}

func TestIsAuthenticated_UndecodableTokenCleared(t *testing.T) {
	svc, store := newTestService(t, nil)
	store.SetToken("eyNotAToken")

	if svc.IsAuthenticated() {
		t.Error("expected undecodable token to be rejected")
	}
	if store.Token() != "" {
		t.Error("expected undecodable token cleared from storage")
	}
}

func TestRoleAndDisplayName(t *testing.T) {
	svc, store := newTestService(t, nil)
	store.SetToken(mintToken(t, []string{"ROLE_ADMIN"}, "Marta", time.Now().Add(time.Hour)))

	if got := svc.Role(); got != RoleAdmin {
		t.Errorf("expected ADMIN, got %q", got)
	}
	if got := svc.DisplayName(); got != "Marta" {
		t.Errorf("expected display name Marta, got %q", got)
	}
}

func TestDisplayName_FallsBackToSubject(t *testing.T) {
	svc, store := newTestService(t, nil)
	store.SetToken(mintToken(t, []string{"MEDICO"}, "", time.Now().Add(time.Hour)))

	if got := svc.DisplayName(); got != "ana@clinica.test" {
		t.Errorf("expected subject fallback, got %q", got)
	}
}

func TestRole_NoSession(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if got := svc.Role(); got != "" {
		t.Errorf("expected empty role without session, got %q", got)
	}
	if got := svc.DisplayName(); got != "" {
		t.Errorf("expected empty display name without session, got %q", got)
	}
}

func TestLogout_ClearsToken(t *testing.T) {
	svc, store := newTestService(t, nil)
	store.SetToken(mintToken(t, []string{"TECNICO"}, "Luis", time.Now().Add(time.Hour)))

	svc.Logout()
	if svc.IsAuthenticated() {
		t.Error("expected unauthenticated session after logout")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
		ok   bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"ROLE_MEDICO", RoleMedico, true},
		{"enfermero", RoleEnfermero, true},
		{"ROLE_tecnico", RoleTecnico, true},
		{"SUPERUSER", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}
