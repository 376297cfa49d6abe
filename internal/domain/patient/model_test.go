package patient

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"11-5555, 11-6666", []string{"11-5555", "11-6666"}},
		{"ana@clinica.test", []string{"ana@clinica.test"}},
		{" , a, ,b ", []string{"a", "b"}},
		{"", []string{}},
		{"   ", []string{}},
	}
	for _, tc := range cases {
		if got := SplitList(tc.input); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNombreCompleto(t *testing.T) {
	p := &Paciente{Nombre: "Ana", Apellido: "Gomez"}
	if got := p.NombreCompleto(); got != "Ana Gomez" {
		t.Errorf("expected 'Ana Gomez', got %q", got)
	}

	p = &Paciente{Nombre: "Ana"}
	if got := p.NombreCompleto(); got != "Ana" {
		t.Errorf("expected 'Ana', got %q", got)
	}
}

func TestParseSection(t *testing.T) {
	for _, s := range Sections() {
		got, ok := ParseSection(string(s))
		if !ok || got != s {
			t.Errorf("ParseSection(%q) = (%q, %v)", s, got, ok)
		}
	}

	if _, ok := ParseSection("otra-cosa"); ok {
		t.Error("expected unrecognized section to be rejected")
	}
}

func TestNormalizeSection_FallsBack(t *testing.T) {
	if got := NormalizeSection("nada"); got != SectionDatosPersonales {
		t.Errorf("expected datos-personales fallback, got %s", got)
	}
	if got := NormalizeSection("alergias"); got != SectionAlergias {
		t.Errorf("expected alergias, got %s", got)
	}
}

func TestValidateSection_DatosPersonales(t *testing.T) {
	p := &Paciente{Nombre: "Ana", Emails: []string{"sin-arroba"}}
	errs := validateSection(SectionDatosPersonales, p)

	for _, field := range []string{"apellido", "fechaNacimiento", "documento", "genero", "emails"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, errs)
		}
	}
	if _, ok := errs["nombre"]; ok {
		t.Error("nombre is present, must not error")
	}
}

func TestValidateSection_ParametrosAlwaysValid(t *testing.T) {
	p := &Paciente{ParametrosDialisis: map[string]string{"kt/v": ""}}
	if errs := validateSection(SectionParametrosDialisis, p); len(errs) != 0 {
		t.Errorf("expected open key→value set to validate, got %v", errs)
	}
}
