package patient

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/platform/api"
)

// Service is the request/response mapping to the patient endpoints. No
// business logic lives here beyond URL construction and payload shaping.
type Service struct {
	api *api.Client
	log zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{api: client, log: logger}
}

func (s *Service) List(ctx context.Context) ([]Paciente, error) {
	var pacientes []Paciente
	if err := s.api.Get(ctx, "/api/pacientes", &pacientes); err != nil {
		return nil, err
	}
	return pacientes, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Paciente, error) {
	p := &Paciente{}
	if err := s.api.Get(ctx, "/api/pacientes/"+id, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Create sends the initial personal data. The backend replies with the full
// record including the new identifier and the QR payload.
func (s *Service) Create(ctx context.Context, p *Paciente) (*Paciente, error) {
	created := &Paciente{}
	if err := s.api.Post(ctx, "/api/pacientes", p, created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("el backend no devolvió un ID")
	}
	s.log.Info().Str("id", created.ID).Msg("paciente creado")
	return created, nil
}

// Update sends a partial payload containing only one section's fields; the
// backend merges it and replies with the full updated record.
func (s *Service) Update(ctx context.Context, id string, partial map[string]any) (*Paciente, error) {
	updated := &Paciente{}
	if err := s.api.Put(ctx, "/api/pacientes/"+id, partial, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/api/pacientes/"+id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("paciente eliminado")
	return nil
}

// DownloadQR fetches the patient's QR image as raw bytes.
func (s *Service) DownloadQR(ctx context.Context, id string) ([]byte, error) {
	return s.api.GetBytes(ctx, "/api/qr/"+id)
}
