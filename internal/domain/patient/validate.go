package patient

import (
	"fmt"
	"strings"
)

// FieldErrors maps a field name to its validation message. Validation is
// local and section-scoped; it never reaches the backend.
type FieldErrors map[string]string

func validateSection(s Section, p *Paciente) FieldErrors {
	errs := FieldErrors{}
	switch s {
	case SectionDatosPersonales:
		requiere(errs, "nombre", p.Nombre)
		requiere(errs, "apellido", p.Apellido)
		requiere(errs, "fechaNacimiento", p.FechaNacimiento)
		requiere(errs, "documento", p.Documento)
		requiere(errs, "genero", p.Genero)
		for _, email := range p.Emails {
			if !strings.Contains(email, "@") {
				errs["emails"] = fmt.Sprintf("email inválido: %s", email)
				break
			}
		}
	case SectionAlergias:
		for i, a := range p.Alergias {
			if strings.TrimSpace(a.Descripcion) == "" {
				errs[campo("alergias", i, "descripcion")] = "la descripción es obligatoria"
			}
		}
	case SectionAntecedentes:
		for i, a := range p.AntecedentesPersonales {
			if strings.TrimSpace(a.Nombre) == "" {
				errs[campo("antecedentesPersonales", i, "nombre")] = "el nombre es obligatorio"
			}
		}
	case SectionMedicacion:
		for i, m := range p.MedicacionActual {
			if strings.TrimSpace(m.Nombre) == "" {
				errs[campo("medicacionActual", i, "nombre")] = "el nombre es obligatorio"
			}
		}
	case SectionHistoriaClinica:
		for i, h := range p.HistoriaClinica {
			if strings.TrimSpace(h.Fecha) == "" {
				errs[campo("historiaClinica", i, "fecha")] = "la fecha es obligatoria"
			}
		}
	case SectionParametrosDialisis:
		// Open key→value set: keys are validated at entry, values are free.
	case SectionEvolucionMensual:
		for i, e := range p.EvolucionMensual {
			if strings.TrimSpace(e.Fecha) == "" {
				errs[campo("evolucionMensual", i, "fecha")] = "la fecha es obligatoria"
			}
			if strings.TrimSpace(e.Profesional) == "" {
				errs[campo("evolucionMensual", i, "profesional")] = "el profesional es obligatorio"
			}
			if strings.TrimSpace(e.InformeGeneral) == "" {
				errs[campo("evolucionMensual", i, "informeGeneral")] = "el informe es obligatorio"
			}
		}
	}
	return errs
}

func requiere(errs FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = "campo obligatorio"
	}
}

func campo(list string, index int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, index, field)
}

// sectionFields lists the field names of a section, used to mark every field
// touched when an invalid submit is attempted.
func sectionFields(s Section) []string {
	switch s {
	case SectionDatosPersonales:
		return []string{
			"nombre", "apellido", "fechaNacimiento", "documento", "genero",
			"estadoCivil", "fechaPrimeraDialisis", "telefonos", "emails",
			"emailsPrioritarios", "domicilio", "obraSocial", "institucion",
		}
	case SectionAlergias:
		return []string{"alergias", "testigoJehova", "seTransfunde"}
	case SectionAntecedentes:
		return []string{"antecedentesPersonales"}
	case SectionMedicacion:
		return []string{"medicacionActual"}
	case SectionHistoriaClinica:
		return []string{"historiaClinica"}
	case SectionParametrosDialisis:
		return []string{"parametrosDialisis"}
	case SectionEvolucionMensual:
		return []string{"evolucionMensual"}
	}
	return nil
}
