package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/platform/api"
	"github.com/clinica/clinica/internal/platform/session"
)

const basePath = "/api/usuarios"

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

type Service struct {
	client *api.Client
	log    zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, log: logger.With().Str("component", "usuarios").Logger()}
}

func (s *Service) List(ctx context.Context) ([]Usuario, error) {
	var usuarios []Usuario
	if err := s.client.Get(ctx, basePath, &usuarios); err != nil {
		return nil, fmt.Errorf("listando usuarios: %w", err)
	}
	return usuarios, nil
}

// Create validates the draft locally before issuing the request: an invalid
// draft returns the per-field messages and never reaches the backend.
func (s *Service) Create(ctx context.Context, draft *Usuario) (*Usuario, FieldErrors, error) {
	if fields := validate(draft); len(fields) > 0 {
		return nil, fields, nil
	}

	var created Usuario
	if err := s.client.Post(ctx, basePath, draft, &created); err != nil {
		return nil, nil, fmt.Errorf("registrando usuario: %w", err)
	}
	s.log.Info().Int64("id", created.IDUsuario).Str("rol", created.Rol).Msg("usuario registrado")
	created.Password = ""
	return &created, nil, nil
}

// ChangePassword sends the new password as the raw request body, the way
// the backend's endpoint expects it.
func (s *Service) ChangePassword(ctx context.Context, id int64, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("la contraseña debe tener al menos 6 caracteres")
	}
	if err := s.client.PutText(ctx, fmt.Sprintf("%s/%d/password", basePath, id), password); err != nil {
		return fmt.Errorf("cambiando contraseña: %w", err)
	}
	s.log.Info().Int64("id", id).Msg("contraseña actualizada")
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id)); err != nil {
		return fmt.Errorf("eliminando usuario: %w", err)
	}
	s.log.Info().Int64("id", id).Msg("usuario eliminado")
	return nil
}

func validate(u *Usuario) FieldErrors {
	fields := FieldErrors{}
	requiere(fields, "nombre", u.Nombre)
	requiere(fields, "apellido", u.Apellido)
	requiere(fields, "email", u.Email)
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		fields["email"] = "el email no es válido"
	}
	if len(u.Password) < 6 {
		fields["password"] = "la contraseña debe tener al menos 6 caracteres"
	}
	if _, ok := session.ParseRole(u.Rol); !ok {
		fields["rol"] = "el rol no es válido"
	}
	return fields
}

func requiere(fields FieldErrors, name, value string) {
	if strings.TrimSpace(value) == "" {
		fields[name] = "este campo es obligatorio"
	}
}
