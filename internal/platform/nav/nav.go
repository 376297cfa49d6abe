// Package nav maps view paths to handlers and enforces that protected views
// are unreachable without a valid session, remembering the attempted
// destination for the post-login redirect.
package nav

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"
)

// protectedPrefixes are the namespaces that require an authenticated session.
var protectedPrefixes = []string{"/pacientes", "/admin"}

// Session is the slice of the session service the router needs.
type Session interface {
	IsAuthenticated() bool
	RememberPath(path string)
	ConsumeReturnPath() string
}

// Params carries the values bound to ":name" segments of a matched pattern.
type Params map[string]string

type ViewFunc func(params Params) error

type route struct {
	segments []string
	view     ViewFunc
}

// Router dispatches view paths. Every Navigate call passes through the guard
// first; unauthenticated entries into protected namespaces land on the login
// view instead, with the original destination remembered.
type Router struct {
	session Session
	routes  []route
	log     zerolog.Logger
}

func NewRouter(session Session, logger zerolog.Logger) *Router {
	return &Router{session: session, log: logger}
}

// Handle registers a view under a pattern like "/pacientes/:id/detalle/:seccion".
func (r *Router) Handle(pattern string, view ViewFunc) {
	r.routes = append(r.routes, route{segments: split(pattern), view: view})
}

// Navigate resolves the path through the guard and runs the matching view.
func (r *Router) Navigate(path string) error {
	resolved := r.resolve(path)
	if resolved != path {
		r.log.Info().Str("from", path).Str("to", resolved).Msg("redirigiendo")
	}
	return r.dispatch(resolved)
}

// AfterLogin performs the post-login redirect: the remembered destination if
// one exists (consumed on use), otherwise the dashboard — every recognized
// role lands on the same view.
func (r *Router) AfterLogin() error {
	if remembered := r.session.ConsumeReturnPath(); remembered != "" {
		r.log.Info().Str("path", remembered).Msg("volviendo a la ruta recordada")
		return r.dispatch(remembered)
	}
	return r.dispatch(DashboardPath)
}

// resolve applies the guard: protected paths require a session; otherwise the
// attempted destination is remembered (single slot, most-recent-wins) and the
// user is sent to login.
func (r *Router) resolve(path string) string {
	if !r.isProtected(path) {
		return path
	}
	if r.session.IsAuthenticated() {
		return path
	}
	r.session.RememberPath(path)
	return LoginPath
}

func (r *Router) isProtected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func (r *Router) dispatch(path string) error {
	segments := split(path)
	for _, rt := range r.routes {
		if params, ok := match(rt.segments, segments); ok {
			return rt.view(params)
		}
	}
	return fmt.Errorf("ruta desconocida: %s", path)
}

func split(path string) []string {
	return strings.FieldsFunc(path, func(c rune) bool { return c == '/' })
}

func match(pattern, segments []string) (Params, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := Params{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			params[p[1:]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}
