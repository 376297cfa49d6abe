package patient

import "strings"

// Paciente is the full patient record as the backend serializes it. Field
// names follow the backend's JSON contract.
type Paciente struct {
	ID         string `json:"id,omitempty"`
	QRCodeData string `json:"qrCodeData,omitempty"`

	// Datos personales
	Nombre               string   `json:"nombre,omitempty"`
	Apellido             string   `json:"apellido,omitempty"`
	FechaNacimiento      string   `json:"fechaNacimiento,omitempty"`
	Documento            string   `json:"documento,omitempty"`
	Genero               string   `json:"genero,omitempty"`
	EstadoCivil          string   `json:"estadoCivil,omitempty"`
	FechaPrimeraDialisis string   `json:"fechaPrimeraDialisis,omitempty"`
	Telefonos            []string `json:"telefonos,omitempty"`
	Emails               []string `json:"emails,omitempty"`
	EmailsPrioritarios   []string `json:"emailsPrioritarios,omitempty"`
	Domicilio            string   `json:"domicilio,omitempty"`
	ObraSocial           string   `json:"obraSocial,omitempty"`
	Institucion          string   `json:"institucion,omitempty"`

	// Alergias y transfusiones
	Alergias      []Alergia `json:"alergias,omitempty"`
	TestigoJehova bool      `json:"testigoJehova"`
	SeTransfunde  bool      `json:"seTransfunde"`

	AntecedentesPersonales []Antecedente     `json:"antecedentesPersonales,omitempty"`
	MedicacionActual       []Medicacion      `json:"medicacionActual,omitempty"`
	HistoriaClinica        []Historial       `json:"historiaClinica,omitempty"`
	ParametrosDialisis     map[string]string `json:"parametrosDialisis,omitempty"`
	EvolucionMensual       []Evolucion       `json:"evolucionMensual,omitempty"`
}

type Alergia struct {
	Descripcion string `json:"descripcion"`
}

type Antecedente struct {
	Nombre  string `json:"nombre"`
	Detalle string `json:"detalle,omitempty"`
}

type Medicacion struct {
	Nombre string `json:"nombre"`
	Dosis  string `json:"dosis,omitempty"`
}

// Historial is one dated clinical-history entry attributed to a professional.
type Historial struct {
	Fecha                       string `json:"fecha"`
	Profesional                 string `json:"profesional,omitempty"`
	GrupoSanguineo              string `json:"grupoSanguineo,omitempty"`
	Peso                        string `json:"peso,omitempty"`
	PesoSeco                    string `json:"pesoSeco,omitempty"`
	Altura                      string `json:"altura,omitempty"`
	FechaPrimeraDialisisVida    string `json:"fechaPrimeraDialisisVida,omitempty"`
	FechaPrimeraDialisisClinica string `json:"fechaPrimeraDialisisClinica,omitempty"`
	Heparina                    string `json:"heparina,omitempty"`
	AntecedentesEnfermedad      string `json:"antecedentesEnfermedad,omitempty"`
	MedicacionPrescritaDialisis string `json:"medicacionPrescritaDialisis,omitempty"`
	MedicacionDomiciliaria      string `json:"medicacionDomiciliaria,omitempty"`
	Detalle                     string `json:"detalle,omitempty"`
}

type Evolucion struct {
	Fecha          string `json:"fecha"`
	Profesional    string `json:"profesional"`
	InformeGeneral string `json:"informeGeneral"`
}

func (p *Paciente) NombreCompleto() string {
	return strings.TrimSpace(p.Nombre + " " + p.Apellido)
}

// SplitList turns a comma-separated input ("11-5555, 11-6666") into a clean
// slice, the way the personal-data form accepts phone and email lists.
func SplitList(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
