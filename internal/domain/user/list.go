package user

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/clinica/clinica/internal/platform/listview"
)

// ListView is the staff list of the administration screen: fetched once,
// filtered client-side by a debounced substring match over name, last name,
// email and role.
type ListView struct {
	svc  *Service
	view *listview.View[Usuario]
}

func NewListView(svc *Service, debounce time.Duration) *ListView {
	return &ListView{
		svc: svc,
		view: listview.New(matchUsuario,
			func(u Usuario) string { return strconv.FormatInt(u.IDUsuario, 10) },
			debounce),
	}
}

func matchUsuario(u Usuario, term string) bool {
	return strings.Contains(strings.ToLower(u.Nombre), term) ||
		strings.Contains(strings.ToLower(u.Apellido), term) ||
		strings.Contains(strings.ToLower(u.Email), term) ||
		strings.Contains(strings.ToLower(u.Rol), term)
}

func (l *ListView) Load(ctx context.Context) error {
	return l.view.Load(func() ([]Usuario, error) { return l.svc.List(ctx) })
}

func (l *ListView) Search(query string) { l.view.Search(query) }
func (l *ListView) Flush()              { l.view.Flush() }
func (l *ListView) Filtered() []Usuario { return l.view.Filtered() }

// Delete asks for confirmation, then removes the account from the backend
// and from both collections without a reload.
func (l *ListView) Delete(ctx context.Context, index int, confirm func(Usuario) bool) (bool, error) {
	return l.view.Delete(index, confirm, func(u Usuario) error {
		return l.svc.Delete(ctx, u.IDUsuario)
	})
}
