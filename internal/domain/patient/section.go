package patient

// Section identifies one of the seven independently validated and saved
// sub-groups of a patient record. The set is closed: anything else coming in
// from a route falls back to the personal-data section.
type Section string

const (
	SectionDatosPersonales    Section = "datos-personales"
	SectionAlergias           Section = "alergias"
	SectionAntecedentes       Section = "antecedentes"
	SectionMedicacion         Section = "medicacion"
	SectionHistoriaClinica    Section = "historia-clinica"
	SectionParametrosDialisis Section = "parametros-dialisis"
	SectionEvolucionMensual   Section = "evolucion-mensual"
)

var allSections = []Section{
	SectionDatosPersonales,
	SectionAlergias,
	SectionAntecedentes,
	SectionMedicacion,
	SectionHistoriaClinica,
	SectionParametrosDialisis,
	SectionEvolucionMensual,
}

// Sections returns the seven sections in display order.
func Sections() []Section {
	return append([]Section(nil), allSections...)
}

func ParseSection(name string) (Section, bool) {
	for _, s := range allSections {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// NormalizeSection resolves a route segment to a section, redirecting
// unrecognized names to the personal-data section.
func NormalizeSection(name string) Section {
	if s, ok := ParseSection(name); ok {
		return s
	}
	return SectionDatosPersonales
}
