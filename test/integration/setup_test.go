package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/platform/api"
	"github.com/clinica/clinica/internal/platform/session"
)

var signingKey = []byte("clave-de-prueba")

// backend is an in-memory rendition of the clinic API: credential login
// issuing a bearer token as plain text, token-guarded patient and user
// resources, and the QR endpoint. It backs every test in the package.
type backend struct {
	mu        sync.Mutex
	pacientes map[string]map[string]any
	usuarios  map[int64]map[string]any
	nextUser  int64
	server    *httptest.Server
}

var globalBackend *backend

func TestMain(m *testing.M) {
	globalBackend = newBackend()
	code := m.Run()
	globalBackend.server.Close()
	os.Exit(code)
}

func newBackend() *backend {
	b := &backend{
		pacientes: map[string]map[string]any{},
		usuarios:  map[int64]map[string]any{},
		nextUser:  1,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	e.POST("/api/auth/login", b.login)

	guarded := e.Group("/api", b.requireToken)
	guarded.GET("/pacientes", b.listPacientes)
	guarded.POST("/pacientes", b.createPaciente)
	guarded.GET("/pacientes/:id", b.getPaciente)
	guarded.PUT("/pacientes/:id", b.updatePaciente)
	guarded.DELETE("/pacientes/:id", b.deletePaciente)
	guarded.GET("/qr/:id", b.qr)

	guarded.GET("/usuarios", b.listUsuarios)
	guarded.POST("/usuarios", b.createUsuario)
	guarded.PUT("/usuarios/:id/password", b.changePassword)
	guarded.DELETE("/usuarios/:id", b.deleteUsuario)

	b.server = httptest.NewServer(e)
	return b
}

// fixture accounts: an administrator and a nurse.
var cuentas = map[string]struct {
	password string
	nombre   string
	rol      string
}{
	"admin@clinica.com":     {password: "admin123", nombre: "Alicia Admin", rol: "ROLE_ADMIN"},
	"enfermero@clinica.com": {password: "enf123", nombre: "Esteban Enfermero", rol: "ROLE_ENFERMERO"},
}

func (b *backend) login(c echo.Context) error {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "solicitud inválida"})
	}
	cuenta, ok := cuentas[creds.Email]
	if !ok || cuenta.password != creds.Password {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "credenciales incorrectas"})
	}

	claims := session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   creds.Email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles:  []string{cuenta.rol},
		Nombre: cuenta.nombre,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "no se pudo firmar el token"})
	}
	return c.String(http.StatusOK, token)
}

func (b *backend) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "token ausente"})
		}
		_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return signingKey, nil },
			jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "token inválido"})
		}
		return next(c)
	}
}

func (b *backend) listPacientes(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, 0, len(b.pacientes))
	for _, p := range b.pacientes {
		out = append(out, p)
	}
	return c.JSON(http.StatusOK, out)
}

func (b *backend) createPaciente(c echo.Context) error {
	var p map[string]any
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "solicitud inválida"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.pacientes {
		if existing["documento"] == p["documento"] {
			return c.JSON(http.StatusConflict, map[string]string{"message": "documento duplicado"})
		}
	}
	id := uuid.NewString()
	p["id"] = id
	p["qrCodeData"] = "qr-" + id
	b.pacientes[id] = p
	return c.JSON(http.StatusCreated, p)
}

func (b *backend) getPaciente(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pacientes[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "paciente no encontrado"})
	}
	return c.JSON(http.StatusOK, p)
}

// updatePaciente merges the body's keys over the stored record, so a partial
// section save leaves the other sections intact.
func (b *backend) updatePaciente(c echo.Context) error {
	var partial map[string]any
	// Bind only the body: echo's Bind would also copy the :id path param
	// into the map as a []string, corrupting the merge below.
	if err := (&echo.DefaultBinder{}).BindBody(c, &partial); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "solicitud inválida"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pacientes[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "paciente no encontrado"})
	}
	for k, v := range partial {
		p[k] = v
	}
	return c.JSON(http.StatusOK, p)
}

func (b *backend) deletePaciente(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.pacientes[c.Param("id")]; !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "paciente no encontrado"})
	}
	delete(b.pacientes, c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (b *backend) qr(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pacientes[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "paciente no encontrado"})
	}
	return c.Blob(http.StatusOK, "image/png", []byte(fmt.Sprintf("png:%v", p["qrCodeData"])))
}

func (b *backend) listUsuarios(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, 0, len(b.usuarios))
	for _, u := range b.usuarios {
		clean := map[string]any{}
		for k, v := range u {
			if k != "password" {
				clean[k] = v
			}
		}
		out = append(out, clean)
	}
	return c.JSON(http.StatusOK, out)
}

func (b *backend) createUsuario(c echo.Context) error {
	var u map[string]any
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "solicitud inválida"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextUser
	b.nextUser++
	u["idUsuario"] = id
	b.usuarios[id] = u
	return c.JSON(http.StatusCreated, u)
}

func (b *backend) changePassword(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "id inválido"})
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil || len(body) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "contraseña vacía"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.usuarios[id]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "usuario no encontrado"})
	}
	u["password"] = string(body)
	return c.NoContent(http.StatusOK)
}

func (b *backend) deleteUsuario(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "id inválido"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.usuarios[id]; !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "usuario no encontrado"})
	}
	delete(b.usuarios, id)
	return c.NoContent(http.StatusNoContent)
}

func parseID(raw string) (int64, error) {
	var id int64
	_, err := fmt.Sscan(raw, &id)
	return id, err
}

// reset clears the stored collections between tests.
func (b *backend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pacientes = map[string]map[string]any{}
	b.usuarios = map[int64]map[string]any{}
	b.nextUser = 1
}

// newSession builds a fresh file-backed session plus an API client wired to
// the shared backend, the way the program wires them at startup.
func newSession(t *testing.T) (*session.Store, *session.Service, *api.Client) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session")
	store := session.NewStore(path)
	client := api.New(globalBackend.server.URL, 5*time.Second, store, zerolog.Nop())
	return store, session.NewService(store, client, zerolog.Nop()), client
}

// loginAs authenticates a fixture account and fails the test on error.
func loginAs(t *testing.T, sess *session.Service, email, password string) {
	t.Helper()
	if err := sess.Login(context.Background(), email, password); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
}

// seedPaciente inserts a record directly into the backend store.
func seedPaciente(t *testing.T, fields map[string]any) string {
	t.Helper()
	id := uuid.NewString()
	fields["id"] = id
	fields["qrCodeData"] = "qr-" + id
	raw, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("seed paciente: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("seed paciente: %v", err)
	}
	globalBackend.mu.Lock()
	globalBackend.pacientes[id] = stored
	globalBackend.mu.Unlock()
	return id
}
