package patient

import (
	"context"
	"strings"
	"time"

	"github.com/clinica/clinica/internal/platform/listview"
)

// ListView is the patient list: fetched once on entry, filtered client-side
// by a debounced case-insensitive substring match over document, first name
// and last name. The observation views reuse it read-only.
type ListView struct {
	svc  *Service
	view *listview.View[Paciente]
}

func NewListView(svc *Service, debounce time.Duration) *ListView {
	return &ListView{
		svc: svc,
		view: listview.New(matchPaciente,
			func(p Paciente) string { return p.ID },
			debounce),
	}
}

func matchPaciente(p Paciente, term string) bool {
	return strings.Contains(strings.ToLower(p.Documento), term) ||
		strings.Contains(strings.ToLower(p.Nombre), term) ||
		strings.Contains(strings.ToLower(p.Apellido), term)
}

func (l *ListView) Load(ctx context.Context) error {
	return l.view.Load(func() ([]Paciente, error) { return l.svc.List(ctx) })
}

func (l *ListView) Search(query string)  { l.view.Search(query) }
func (l *ListView) Flush()               { l.view.Flush() }
func (l *ListView) Filtered() []Paciente { return l.view.Filtered() }

// Delete asks for confirmation, then removes the patient at the filtered
// index from the backend and from both collections without a reload.
func (l *ListView) Delete(ctx context.Context, index int, confirm func(Paciente) bool) (bool, error) {
	return l.view.Delete(index, confirm, func(p Paciente) error {
		return l.svc.Delete(ctx, p.ID)
	})
}
