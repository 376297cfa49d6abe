package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinica/clinica/internal/config"
	"github.com/clinica/clinica/internal/domain/patient"
	"github.com/clinica/clinica/internal/domain/user"
	"github.com/clinica/clinica/internal/platform/api"
	"github.com/clinica/clinica/internal/platform/nav"
	"github.com/clinica/clinica/internal/platform/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinica",
		Short: "Cliente de historias clínicas de la unidad de diálisis",
	}

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(pacientesCmd())
	rootCmd.AddCommand(usuariosCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app wires the platform pieces every command needs. Views receive their
// inputs through the app the way screens read their route and form state.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *session.Store
	client  *api.Client
	sess    *session.Service
	pats    *patient.Service
	users   *user.Service
	router  *nav.Router
	ctx     context.Context
	confirm func(prompt string) bool

	// pending inputs for the mutating views
	patientDraft *personalFlags
	userDraft    *user.Usuario
	edit         *editRequest
	qrOut        string
	query        string
}

type editRequest struct {
	personal  *personalFlags
	testigo   *bool
	transfund *bool
	agregar   []string
	quitar    []int
	parametro map[string]string
	quitarPar []string
}

// personalFlags collects the personal-data fields as the command line
// provides them. Phone and email lists arrive comma-separated.
type personalFlags struct {
	Nombre               string
	Apellido             string
	FechaNacimiento      string
	Documento            string
	Genero               string
	EstadoCivil          string
	FechaPrimeraDialisis string
	Telefonos            string
	Emails               string
	Domicilio            string
	ObraSocial           string
	Institucion          string
}

// apply merges the provided fields onto the record, leaving untouched what
// the command line did not set.
func (f *personalFlags) apply(p *patient.Paciente) {
	campos := []struct {
		src string
		dst *string
	}{
		{f.Nombre, &p.Nombre},
		{f.Apellido, &p.Apellido},
		{f.FechaNacimiento, &p.FechaNacimiento},
		{f.Documento, &p.Documento},
		{f.Genero, &p.Genero},
		{f.EstadoCivil, &p.EstadoCivil},
		{f.FechaPrimeraDialisis, &p.FechaPrimeraDialisis},
		{f.Domicilio, &p.Domicilio},
		{f.ObraSocial, &p.ObraSocial},
		{f.Institucion, &p.Institucion},
	}
	for _, c := range campos {
		if c.src != "" {
			*c.dst = c.src
		}
	}
	if f.Telefonos != "" {
		p.Telefonos = patient.SplitList(f.Telefonos)
	}
	if f.Emails != "" {
		p.Emails = patient.SplitList(f.Emails)
	}
}

func newApp() (*app, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	logger = logger.Level(zerolog.WarnLevel)

	store := session.NewStore(cfg.SessionFile)
	client := api.New(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeoutSecs)*time.Second, store, logger)
	sess := session.NewService(store, client, logger)

	a := &app{
		cfg:     cfg,
		log:     logger,
		store:   store,
		client:  client,
		sess:    sess,
		pats:    patient.NewService(client, logger),
		users:   user.NewService(client, logger),
		ctx:     context.Background(),
		confirm: confirmOnTerminal,
	}
	a.router = newRouter(a)
	return a, nil
}

// newRouter registers every view. The guard lives in the router: protected
// paths reached without a session land on the login view with the attempted
// destination remembered.
func newRouter(a *app) *nav.Router {
	r := nav.NewRouter(a.sess, a.log)

	r.Handle(nav.LoginPath, a.loginView)
	r.Handle(nav.DashboardPath, a.dashboardView)

	r.Handle("/pacientes", a.patientListView)
	r.Handle("/pacientes/nuevo", a.patientCreateView)
	r.Handle("/pacientes/:id/detalle/:seccion", a.patientDetailView)
	r.Handle("/pacientes/:id/editar/:seccion", a.patientEditView)
	r.Handle("/pacientes/:id/eliminar", a.patientDeleteView)
	r.Handle("/pacientes/:id/qr", a.patientQRView)

	r.Handle("/admin/usuarios", a.userListView)
	r.Handle("/admin/usuarios/nuevo", a.userCreateView)
	r.Handle("/admin/usuarios/:id/password", a.userPasswordView)
	r.Handle("/admin/usuarios/:id/eliminar", a.userDeleteView)

	return r
}

func loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Iniciar sesión",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if password == "" {
				password = promptLine("Contraseña: ")
			}
			if err := a.sess.Login(a.ctx, args[0], password); err != nil {
				return err
			}
			fmt.Println("Sesión iniciada.")
			return a.router.AfterLogin()
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Contraseña (se pregunta si falta)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar sesión",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.sess.Logout()
			fmt.Println("Sesión cerrada.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar la sesión activa",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if !a.sess.IsAuthenticated() {
				fmt.Println("No hay sesión activa.")
				return nil
			}
			fmt.Printf("%s (%s)\n", a.sess.DisplayName(), capitalize(string(a.sess.Role())))
			return nil
		},
	}
}

func pacientesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pacientes",
		Short: "Pacientes de la unidad",
	}
	cmd.AddCommand(pacientesListarCmd())
	cmd.AddCommand(pacientesObservarCmd())
	cmd.AddCommand(pacientesNuevoCmd())
	cmd.AddCommand(pacientesEditarCmd())
	cmd.AddCommand(pacientesEliminarCmd())
	cmd.AddCommand(pacientesQRCmd())
	return cmd
}

func pacientesListarCmd() *cobra.Command {
	var buscar string
	cmd := &cobra.Command{
		Use:   "listar",
		Short: "Listar pacientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.query = buscar
			return a.router.Navigate("/pacientes")
		},
	}
	cmd.Flags().StringVar(&buscar, "buscar", "", "Filtrar por documento, nombre o apellido")
	return cmd
}

func pacientesObservarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "observar <id> [seccion]",
		Short: "Ver la historia clínica de un paciente",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			seccion := string(patient.SectionDatosPersonales)
			if len(args) == 2 {
				seccion = args[1]
			}
			return a.router.Navigate("/pacientes/" + args[0] + "/detalle/" + seccion)
		},
	}
}

func pacientesNuevoCmd() *cobra.Command {
	draft := &personalFlags{}
	cmd := &cobra.Command{
		Use:   "nuevo",
		Short: "Registrar un paciente",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.patientDraft = draft
			return a.router.Navigate("/pacientes/nuevo")
		},
	}
	bindPersonalFlags(cmd, draft)
	return cmd
}

func pacientesEditarCmd() *cobra.Command {
	personal := &personalFlags{}
	req := &editRequest{parametro: map[string]string{}}
	var testigo, transfunde bool
	var parametros []string
	cmd := &cobra.Command{
		Use:   "editar <id> <seccion>",
		Short: "Editar una sección de la historia clínica",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			for _, flag := range personalFlagNames {
				if cmd.Flags().Changed(flag) {
					req.personal = personal
					break
				}
			}
			if cmd.Flags().Changed("testigo-jehova") {
				req.testigo = &testigo
			}
			if cmd.Flags().Changed("se-transfunde") {
				req.transfund = &transfunde
			}
			for _, par := range parametros {
				clave, valor, ok := strings.Cut(par, "=")
				if !ok {
					return fmt.Errorf("parámetro inválido %q, se espera clave=valor", par)
				}
				req.parametro[clave] = valor
			}
			a.edit = req
			return a.router.Navigate("/pacientes/" + args[0] + "/editar/" + args[1])
		},
	}
	bindPersonalFlags(cmd, personal)
	cmd.Flags().BoolVar(&testigo, "testigo-jehova", false, "El paciente es testigo de Jehová")
	cmd.Flags().BoolVar(&transfunde, "se-transfunde", false, "El paciente acepta transfusiones")
	cmd.Flags().StringArrayVar(&req.agregar, "agregar", nil, "Fila a agregar, como objeto JSON (repetible)")
	cmd.Flags().IntSliceVar(&req.quitar, "quitar", nil, "Índice de fila a quitar (repetible)")
	cmd.Flags().StringArrayVar(&parametros, "parametro", nil, "Parámetro clave=valor (repetible)")
	cmd.Flags().StringArrayVar(&req.quitarPar, "quitar-parametro", nil, "Clave de parámetro a quitar (repetible)")
	return cmd
}

var personalFlagNames = []string{
	"nombre", "apellido", "fecha-nacimiento", "documento", "genero",
	"estado-civil", "fecha-primera-dialisis", "telefonos", "emails",
	"domicilio", "obra-social", "institucion",
}

func bindPersonalFlags(cmd *cobra.Command, p *personalFlags) {
	cmd.Flags().StringVar(&p.Nombre, "nombre", "", "Nombre")
	cmd.Flags().StringVar(&p.Apellido, "apellido", "", "Apellido")
	cmd.Flags().StringVar(&p.FechaNacimiento, "fecha-nacimiento", "", "Fecha de nacimiento (AAAA-MM-DD)")
	cmd.Flags().StringVar(&p.Documento, "documento", "", "Documento")
	cmd.Flags().StringVar(&p.Genero, "genero", "", "Género")
	cmd.Flags().StringVar(&p.EstadoCivil, "estado-civil", "", "Estado civil")
	cmd.Flags().StringVar(&p.FechaPrimeraDialisis, "fecha-primera-dialisis", "", "Fecha de la primera diálisis")
	cmd.Flags().StringVar(&p.Telefonos, "telefonos", "", "Teléfonos, separados por coma")
	cmd.Flags().StringVar(&p.Emails, "emails", "", "Emails, separados por coma")
	cmd.Flags().StringVar(&p.Domicilio, "domicilio", "", "Domicilio")
	cmd.Flags().StringVar(&p.ObraSocial, "obra-social", "", "Obra social")
	cmd.Flags().StringVar(&p.Institucion, "institucion", "", "Institución")
}

func pacientesEliminarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eliminar <id>",
		Short: "Eliminar un paciente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.router.Navigate("/pacientes/" + args[0] + "/eliminar")
		},
	}
}

func pacientesQRCmd() *cobra.Command {
	var salida string
	cmd := &cobra.Command{
		Use:   "qr <id>",
		Short: "Descargar el código QR de un paciente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.qrOut = salida
			return a.router.Navigate("/pacientes/" + args[0] + "/qr")
		},
	}
	cmd.Flags().StringVar(&salida, "salida", "", "Archivo de destino (por defecto <id>.png)")
	return cmd
}

func usuariosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usuarios",
		Short: "Administración de usuarios",
	}
	cmd.AddCommand(usuariosListarCmd())
	cmd.AddCommand(usuariosCrearCmd())
	cmd.AddCommand(usuariosPasswordCmd())
	cmd.AddCommand(usuariosEliminarCmd())
	return cmd
}

func usuariosListarCmd() *cobra.Command {
	var buscar string
	cmd := &cobra.Command{
		Use:   "listar",
		Short: "Listar usuarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.query = buscar
			return a.router.Navigate("/admin/usuarios")
		},
	}
	cmd.Flags().StringVar(&buscar, "buscar", "", "Filtrar por nombre, apellido, email o rol")
	return cmd
}

func usuariosCrearCmd() *cobra.Command {
	draft := &user.Usuario{}
	cmd := &cobra.Command{
		Use:   "crear",
		Short: "Registrar un usuario",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.userDraft = draft
			return a.router.Navigate("/admin/usuarios/nuevo")
		},
	}
	cmd.Flags().StringVar(&draft.Nombre, "nombre", "", "Nombre")
	cmd.Flags().StringVar(&draft.Apellido, "apellido", "", "Apellido")
	cmd.Flags().StringVar(&draft.Email, "email", "", "Email")
	cmd.Flags().StringVar(&draft.Password, "password", "", "Contraseña")
	cmd.Flags().StringVar(&draft.Rol, "rol", "", "Rol: ADMIN, MEDICO, ENFERMERO o TECNICO")
	return cmd
}

func usuariosPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "password <id>",
		Short: "Cambiar la contraseña de un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if password == "" {
				password = promptLine("Nueva contraseña: ")
			}
			a.userDraft = &user.Usuario{Password: password}
			return a.router.Navigate("/admin/usuarios/" + args[0] + "/password")
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Nueva contraseña (se pregunta si falta)")
	return cmd
}

func usuariosEliminarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eliminar <id>",
		Short: "Eliminar un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.router.Navigate("/admin/usuarios/" + args[0] + "/eliminar")
		},
	}
}

// --- Views ---

func (a *app) loginView(nav.Params) error {
	fmt.Println("Necesita iniciar sesión: clinica login <email>")
	return nil
}

func (a *app) dashboardView(nav.Params) error {
	fmt.Printf("Bienvenido/a %s (%s)\n", a.sess.DisplayName(), capitalize(string(a.sess.Role())))
	fmt.Println("  - Pacientes: clinica pacientes listar")
	if a.sess.Role() == session.RoleAdmin {
		fmt.Println("  - Usuarios:  clinica usuarios listar")
	}
	return nil
}

func (a *app) patientListView(nav.Params) error {
	lv := patient.NewListView(a.pats, 0)
	if err := lv.Load(a.ctx); err != nil {
		return err
	}
	lv.Search(a.query)
	lv.Flush()
	list := lv.Filtered()
	if len(list) == 0 {
		fmt.Println("No se encontraron pacientes.")
		return nil
	}
	for _, p := range list {
		fmt.Printf("%-10s  %-12s  %s\n", p.ID, p.Documento, p.NombreCompleto())
	}
	return nil
}

func (a *app) patientDetailView(params nav.Params) error {
	p, err := a.pats.Get(a.ctx, params["id"])
	if err != nil {
		return err
	}
	seccion := patient.NormalizeSection(params["seccion"])
	fmt.Printf("%s - %s\n", p.NombreCompleto(), seccion)
	printSection(p, seccion)
	return nil
}

func (a *app) patientCreateView(nav.Params) error {
	form := patient.NewForm(a.pats, a.log)
	if err := form.Enter(a.ctx, "", string(patient.SectionDatosPersonales)); err != nil {
		return err
	}
	draft := patient.Paciente{}
	a.patientDraft.apply(&draft)
	form.SetDatosPersonales(draft)
	fields, err := form.Submit(a.ctx)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		printFieldErrors(fields)
		return fmt.Errorf("los datos personales no son válidos")
	}
	fmt.Println("Paciente registrado con id", form.ID())
	return nil
}

func (a *app) patientEditView(params nav.Params) error {
	form := patient.NewForm(a.pats, a.log)
	if err := form.Enter(a.ctx, params["id"], params["seccion"]); err != nil {
		return err
	}
	if err := applyEdit(form, a.edit); err != nil {
		return err
	}
	fields, err := form.Submit(a.ctx)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		printFieldErrors(fields)
		return fmt.Errorf("la sección %s no es válida", form.ActiveSection())
	}
	fmt.Printf("Sección %s guardada.\n", form.ActiveSection())
	return nil
}

// applyEdit replays the command's flags onto the form, using the mutators of
// the active section.
func applyEdit(form *patient.Form, req *editRequest) error {
	if req == nil {
		return nil
	}
	if req.personal != nil {
		merged := form.Record()
		req.personal.apply(&merged)
		form.SetDatosPersonales(merged)
	}
	if req.testigo != nil || req.transfund != nil {
		record := form.Record()
		testigo, transfunde := record.TestigoJehova, record.SeTransfunde
		if req.testigo != nil {
			testigo = *req.testigo
		}
		if req.transfund != nil {
			transfunde = *req.transfund
		}
		form.SetTransfusion(testigo, transfunde)
	}
	for _, raw := range req.agregar {
		if err := addRow(form, raw); err != nil {
			return err
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(req.quitar)))
	for _, i := range req.quitar {
		if err := removeRow(form, i); err != nil {
			return err
		}
	}
	for clave, valor := range req.parametro {
		if err := form.SetParametro(clave, valor); err != nil {
			return err
		}
	}
	for _, clave := range req.quitarPar {
		form.RemoveParametro(clave)
	}
	return nil
}

func addRow(form *patient.Form, raw string) error {
	decode := func(out any) error {
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return fmt.Errorf("fila inválida %q: %w", raw, err)
		}
		return nil
	}
	switch form.ActiveSection() {
	case patient.SectionAlergias:
		var row patient.Alergia
		if err := decode(&row); err != nil {
			return err
		}
		form.AddAlergia(row)
	case patient.SectionAntecedentes:
		var row patient.Antecedente
		if err := decode(&row); err != nil {
			return err
		}
		form.AddAntecedente(row)
	case patient.SectionMedicacion:
		var row patient.Medicacion
		if err := decode(&row); err != nil {
			return err
		}
		form.AddMedicacion(row)
	case patient.SectionHistoriaClinica:
		var row patient.Historial
		if err := decode(&row); err != nil {
			return err
		}
		form.AddHistorial(row)
	case patient.SectionEvolucionMensual:
		var row patient.Evolucion
		if err := decode(&row); err != nil {
			return err
		}
		form.AddEvolucion(row)
	default:
		return fmt.Errorf("la sección %s no admite filas", form.ActiveSection())
	}
	return nil
}

func removeRow(form *patient.Form, i int) error {
	switch form.ActiveSection() {
	case patient.SectionAlergias:
		return form.RemoveAlergia(i)
	case patient.SectionAntecedentes:
		return form.RemoveAntecedente(i)
	case patient.SectionMedicacion:
		return form.RemoveMedicacion(i)
	case patient.SectionHistoriaClinica:
		return form.RemoveHistorial(i)
	case patient.SectionEvolucionMensual:
		return form.RemoveEvolucion(i)
	}
	return fmt.Errorf("la sección %s no admite filas", form.ActiveSection())
}

func (a *app) patientDeleteView(params nav.Params) error {
	lv := patient.NewListView(a.pats, 0)
	if err := lv.Load(a.ctx); err != nil {
		return err
	}
	index := -1
	for i, p := range lv.Filtered() {
		if p.ID == params["id"] {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("paciente no encontrado: %s", params["id"])
	}
	removed, err := lv.Delete(a.ctx, index, func(p patient.Paciente) bool {
		return a.confirm(fmt.Sprintf("¿Eliminar a %s?", p.NombreCompleto()))
	})
	if err != nil {
		return err
	}
	if !removed {
		fmt.Println("Operación cancelada.")
		return nil
	}
	fmt.Println("Paciente eliminado.")
	return nil
}

func (a *app) patientQRView(params nav.Params) error {
	data, err := a.pats.DownloadQR(a.ctx, params["id"])
	if err != nil {
		return err
	}
	out := a.qrOut
	if out == "" {
		out = params["id"] + ".png"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("guardando %s: %w", out, err)
	}
	fmt.Println("QR guardado en", filepath.Clean(out))
	return nil
}

// requireAdmin gates the administration views. Roles are enforced at the
// view, the navigation guard only checks that a session exists.
func (a *app) requireAdmin() error {
	if a.sess.Role() != session.RoleAdmin {
		return fmt.Errorf("no tiene permisos para administrar usuarios")
	}
	return nil
}

func (a *app) userListView(nav.Params) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	lv := user.NewListView(a.users, 0)
	if err := lv.Load(a.ctx); err != nil {
		return err
	}
	lv.Search(a.query)
	lv.Flush()
	list := lv.Filtered()
	if len(list) == 0 {
		fmt.Println("No se encontraron usuarios.")
		return nil
	}
	for _, u := range list {
		fmt.Printf("%-6d  %-10s  %-30s  %s\n", u.IDUsuario, u.Rol, u.Email, u.NombreCompleto())
	}
	return nil
}

func (a *app) userCreateView(nav.Params) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	created, fields, err := a.users.Create(a.ctx, a.userDraft)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		printFieldErrors(fields)
		return fmt.Errorf("los datos del usuario no son válidos")
	}
	fmt.Println("Usuario registrado con id", created.IDUsuario)
	return nil
}

func (a *app) userPasswordView(params nav.Params) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	id, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil {
		return fmt.Errorf("id inválido: %s", params["id"])
	}
	if err := a.users.ChangePassword(a.ctx, id, a.userDraft.Password); err != nil {
		return err
	}
	fmt.Println("Contraseña actualizada.")
	return nil
}

func (a *app) userDeleteView(params nav.Params) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	lv := user.NewListView(a.users, 0)
	if err := lv.Load(a.ctx); err != nil {
		return err
	}
	index := -1
	for i, u := range lv.Filtered() {
		if strconv.FormatInt(u.IDUsuario, 10) == params["id"] {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("usuario no encontrado: %s", params["id"])
	}
	removed, err := lv.Delete(a.ctx, index, func(u user.Usuario) bool {
		return a.confirm(fmt.Sprintf("¿Eliminar al usuario %s?", u.Email))
	})
	if err != nil {
		return err
	}
	if !removed {
		fmt.Println("Operación cancelada.")
		return nil
	}
	fmt.Println("Usuario eliminado.")
	return nil
}

// --- Helpers ---

func printSection(p *patient.Paciente, s patient.Section) {
	switch s {
	case patient.SectionDatosPersonales:
		fmt.Printf("  Documento: %s\n  Nacimiento: %s\n  Género: %s\n  Obra social: %s\n",
			p.Documento, p.FechaNacimiento, p.Genero, p.ObraSocial)
		fmt.Printf("  Teléfonos: %s\n  Emails: %s\n", strings.Join(p.Telefonos, ", "), strings.Join(p.Emails, ", "))
	case patient.SectionAlergias:
		fmt.Printf("  Testigo de Jehová: %t - Se transfunde: %t\n", p.TestigoJehova, p.SeTransfunde)
		for i, a := range p.Alergias {
			fmt.Printf("  %d. %s\n", i, a.Descripcion)
		}
	case patient.SectionAntecedentes:
		for i, a := range p.AntecedentesPersonales {
			fmt.Printf("  %d. %s: %s\n", i, a.Nombre, a.Detalle)
		}
	case patient.SectionMedicacion:
		for i, m := range p.MedicacionActual {
			fmt.Printf("  %d. %s %s\n", i, m.Nombre, m.Dosis)
		}
	case patient.SectionHistoriaClinica:
		for i, h := range p.HistoriaClinica {
			fmt.Printf("  %d. %s - %s (peso %s, peso seco %s)\n", i, h.Fecha, h.Profesional, h.Peso, h.PesoSeco)
		}
	case patient.SectionParametrosDialisis:
		claves := make([]string, 0, len(p.ParametrosDialisis))
		for clave := range p.ParametrosDialisis {
			claves = append(claves, clave)
		}
		sort.Strings(claves)
		for _, clave := range claves {
			fmt.Printf("  %s: %s\n", clave, p.ParametrosDialisis[clave])
		}
	case patient.SectionEvolucionMensual:
		for i, e := range p.EvolucionMensual {
			fmt.Printf("  %d. %s - %s: %s\n", i, e.Fecha, e.Profesional, e.InformeGeneral)
		}
	}
}

func printFieldErrors(fields map[string]string) {
	claves := make([]string, 0, len(fields))
	for clave := range fields {
		claves = append(claves, clave)
	}
	sort.Strings(claves)
	for _, clave := range claves {
		fmt.Printf("  %s: %s\n", clave, fields[clave])
	}
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

func confirmOnTerminal(prompt string) bool {
	fmt.Print(prompt + " [s/N] ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "s" || answer == "si" || answer == "sí"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
