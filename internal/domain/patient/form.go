package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// RecordClient is the slice of the patient service the composite form needs.
type RecordClient interface {
	Get(ctx context.Context, id string) (*Paciente, error)
	Create(ctx context.Context, p *Paciente) (*Paciente, error)
	Update(ctx context.Context, id string, partial map[string]any) (*Paciente, error)
}

type FormState int

const (
	// StateCreating: no identifier yet, only the personal-data section is
	// editable.
	StateCreating FormState = iota
	// StateLoading: transient, while the full record is being fetched.
	StateLoading
	// StateEditing: an identifier exists and one section is active.
	StateEditing
)

var (
	ErrBusy      = errors.New("hay una operación en curso")
	ErrNotLoaded = errors.New("la ficha del paciente no está cargada")
)

// Form owns the in-memory draft of a full patient record, split into seven
// independently navigable, validated and savable sections. The draft is
// seeded once per visit (from the create response or a single fetch) and
// replaced wholesale by each successful section save's response.
type Form struct {
	client RecordClient
	log    zerolog.Logger

	state   FormState
	section Section
	record  Paciente
	dirty   map[Section]bool
	touched map[Section][]string
	busy    bool
}

func NewForm(client RecordClient, logger zerolog.Logger) *Form {
	return &Form{
		client:  client,
		log:     logger,
		section: SectionDatosPersonales,
		dirty:   make(map[Section]bool),
		touched: make(map[Section][]string),
	}
}

// Enter initializes the form for a route. Without an identifier the form is
// in creation mode; with one, the full record is fetched exactly once and
// the requested section becomes active (unrecognized names fall back to
// datos-personales).
func (f *Form) Enter(ctx context.Context, id, sectionName string) error {
	f.record = Paciente{}
	f.dirty = make(map[Section]bool)
	f.touched = make(map[Section][]string)
	f.section = SectionDatosPersonales

	if id == "" {
		f.state = StateCreating
		return nil
	}

	f.state = StateLoading
	p, err := f.client.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("no se pudieron cargar los datos del paciente: %w", err)
	}
	f.record = *p
	f.state = StateEditing
	f.section = NormalizeSection(sectionName)
	return nil
}

func (f *Form) State() FormState       { return f.state }
func (f *Form) ActiveSection() Section { return f.section }
func (f *Form) ID() string             { return f.record.ID }
func (f *Form) Busy() bool             { return f.busy }

// Record returns a copy of the current draft.
func (f *Form) Record() Paciente { return f.record }

// Dirty reports whether a section has unsaved local changes.
func (f *Form) Dirty(s Section) bool { return f.dirty[s] }

// Touched returns the fields of a section whose validation messages are
// surfaced (set when an invalid submit was attempted).
func (f *Form) Touched(s Section) []string {
	return append([]string(nil), f.touched[s]...)
}

// SelectSection switches the active section. The record was already loaded
// once per visit, so no re-fetch happens, and the data and validation state
// of every other section stay untouched. While creating, only the
// personal-data section exists.
func (f *Form) SelectSection(name string) Section {
	s := NormalizeSection(name)
	if f.state != StateEditing {
		return f.section
	}
	f.section = s
	return s
}

// -- Section mutators. Each touches only its own section's data and marks
// that section dirty; persistence happens on the next Submit of the section.

// SetDatosPersonales copies the personal-data fields of p into the draft.
func (f *Form) SetDatosPersonales(p Paciente) {
	f.record.Nombre = p.Nombre
	f.record.Apellido = p.Apellido
	f.record.FechaNacimiento = p.FechaNacimiento
	f.record.Documento = p.Documento
	f.record.Genero = p.Genero
	f.record.EstadoCivil = p.EstadoCivil
	f.record.FechaPrimeraDialisis = p.FechaPrimeraDialisis
	f.record.Telefonos = p.Telefonos
	f.record.Emails = p.Emails
	f.record.EmailsPrioritarios = p.EmailsPrioritarios
	f.record.Domicilio = p.Domicilio
	f.record.ObraSocial = p.ObraSocial
	f.record.Institucion = p.Institucion
	f.dirty[SectionDatosPersonales] = true
}

// SetTransfusion sets the religious-objection and transfusion-consent flags,
// which belong to the allergy section.
func (f *Form) SetTransfusion(testigoJehova, seTransfunde bool) {
	f.record.TestigoJehova = testigoJehova
	f.record.SeTransfunde = seTransfunde
	f.dirty[SectionAlergias] = true
}

func (f *Form) AddAlergia(a Alergia) {
	f.record.Alergias = append(f.record.Alergias, a)
	f.dirty[SectionAlergias] = true
}

func (f *Form) RemoveAlergia(i int) error {
	if i < 0 || i >= len(f.record.Alergias) {
		return errIndice
	}
	f.record.Alergias = append(f.record.Alergias[:i], f.record.Alergias[i+1:]...)
	f.dirty[SectionAlergias] = true
	return nil
}

func (f *Form) AddAntecedente(a Antecedente) {
	f.record.AntecedentesPersonales = append(f.record.AntecedentesPersonales, a)
	f.dirty[SectionAntecedentes] = true
}

func (f *Form) RemoveAntecedente(i int) error {
	if i < 0 || i >= len(f.record.AntecedentesPersonales) {
		return errIndice
	}
	f.record.AntecedentesPersonales = append(f.record.AntecedentesPersonales[:i], f.record.AntecedentesPersonales[i+1:]...)
	f.dirty[SectionAntecedentes] = true
	return nil
}

func (f *Form) AddMedicacion(m Medicacion) {
	f.record.MedicacionActual = append(f.record.MedicacionActual, m)
	f.dirty[SectionMedicacion] = true
}

func (f *Form) RemoveMedicacion(i int) error {
	if i < 0 || i >= len(f.record.MedicacionActual) {
		return errIndice
	}
	f.record.MedicacionActual = append(f.record.MedicacionActual[:i], f.record.MedicacionActual[i+1:]...)
	f.dirty[SectionMedicacion] = true
	return nil
}

func (f *Form) AddHistorial(h Historial) {
	f.record.HistoriaClinica = append(f.record.HistoriaClinica, h)
	f.dirty[SectionHistoriaClinica] = true
}

func (f *Form) RemoveHistorial(i int) error {
	if i < 0 || i >= len(f.record.HistoriaClinica) {
		return errIndice
	}
	f.record.HistoriaClinica = append(f.record.HistoriaClinica[:i], f.record.HistoriaClinica[i+1:]...)
	f.dirty[SectionHistoriaClinica] = true
	return nil
}

// SetParametro stores one named clinical reading in the open key→value set.
func (f *Form) SetParametro(clave, valor string) error {
	if clave == "" {
		return errors.New("el parámetro necesita un nombre")
	}
	if f.record.ParametrosDialisis == nil {
		f.record.ParametrosDialisis = make(map[string]string)
	}
	f.record.ParametrosDialisis[clave] = valor
	f.dirty[SectionParametrosDialisis] = true
	return nil
}

func (f *Form) RemoveParametro(clave string) {
	delete(f.record.ParametrosDialisis, clave)
	f.dirty[SectionParametrosDialisis] = true
}

func (f *Form) AddEvolucion(e Evolucion) {
	f.record.EvolucionMensual = append(f.record.EvolucionMensual, e)
	f.dirty[SectionEvolucionMensual] = true
}

func (f *Form) RemoveEvolucion(i int) error {
	if i < 0 || i >= len(f.record.EvolucionMensual) {
		return errIndice
	}
	f.record.EvolucionMensual = append(f.record.EvolucionMensual[:i], f.record.EvolucionMensual[i+1:]...)
	f.dirty[SectionEvolucionMensual] = true
	return nil
}

var errIndice = errors.New("índice fuera de rango")

// Submit validates the active section and persists it. An invalid section
// marks all of its fields touched and issues no request; other sections'
// validation state is never touched. While creating, a successful submit
// seeds every section from the create response and transitions to editing
// the personal-data section with the new identifier — no second fetch.
// While editing, a successful submit sends only the active section's fields
// and refreshes the whole draft from the response, since the backend is the
// source of truth for computed fields.
func (f *Form) Submit(ctx context.Context) (FieldErrors, error) {
	if f.busy {
		return nil, ErrBusy
	}
	if f.state == StateLoading {
		return nil, ErrNotLoaded
	}

	section := f.section
	if f.state == StateCreating {
		section = SectionDatosPersonales
	}

	if errs := validateSection(section, &f.record); len(errs) > 0 {
		f.touched[section] = sectionFields(section)
		return errs, nil
	}

	f.busy = true
	defer func() { f.busy = false }()

	if f.state == StateCreating {
		created, err := f.client.Create(ctx, personalDraft(&f.record))
		if err != nil {
			return nil, err
		}
		f.record = *created
		f.state = StateEditing
		f.section = SectionDatosPersonales
		f.dirty = make(map[Section]bool)
		delete(f.touched, SectionDatosPersonales)
		f.log.Info().Str("id", f.record.ID).Msg("ficha creada, pasando a edición")
		return nil, nil
	}

	updated, err := f.client.Update(ctx, f.record.ID, sectionPayload(section, &f.record))
	if err != nil {
		return nil, err
	}
	f.record = *updated
	delete(f.dirty, section)
	delete(f.touched, section)
	return nil, nil
}

// personalDraft builds the creation payload: only the personal-data section
// exists before the record does.
func personalDraft(p *Paciente) *Paciente {
	return &Paciente{
		Nombre:               p.Nombre,
		Apellido:             p.Apellido,
		FechaNacimiento:      p.FechaNacimiento,
		Documento:            p.Documento,
		Genero:               p.Genero,
		EstadoCivil:          p.EstadoCivil,
		FechaPrimeraDialisis: p.FechaPrimeraDialisis,
		Telefonos:            p.Telefonos,
		Emails:               p.Emails,
		EmailsPrioritarios:   p.EmailsPrioritarios,
		Domicilio:            p.Domicilio,
		ObraSocial:           p.ObraSocial,
		Institucion:          p.Institucion,
	}
}

// sectionPayload shapes the partial-update body: only the given section's
// fields, keyed the way the backend merges them.
func sectionPayload(s Section, p *Paciente) map[string]any {
	switch s {
	case SectionDatosPersonales:
		return map[string]any{
			"nombre":               p.Nombre,
			"apellido":             p.Apellido,
			"fechaNacimiento":      p.FechaNacimiento,
			"documento":            p.Documento,
			"genero":               p.Genero,
			"estadoCivil":          p.EstadoCivil,
			"fechaPrimeraDialisis": p.FechaPrimeraDialisis,
			"telefonos":            p.Telefonos,
			"emails":               p.Emails,
			"emailsPrioritarios":   p.EmailsPrioritarios,
			"domicilio":            p.Domicilio,
			"obraSocial":           p.ObraSocial,
			"institucion":          p.Institucion,
		}
	case SectionAlergias:
		return map[string]any{
			"alergias":      p.Alergias,
			"testigoJehova": p.TestigoJehova,
			"seTransfunde":  p.SeTransfunde,
		}
	case SectionAntecedentes:
		return map[string]any{"antecedentesPersonales": p.AntecedentesPersonales}
	case SectionMedicacion:
		return map[string]any{"medicacionActual": p.MedicacionActual}
	case SectionHistoriaClinica:
		return map[string]any{"historiaClinica": p.HistoriaClinica}
	case SectionParametrosDialisis:
		return map[string]any{"parametrosDialisis": p.ParametrosDialisis}
	case SectionEvolucionMensual:
		return map[string]any{"evolucionMensual": p.EvolucionMensual}
	}
	return map[string]any{}
}
