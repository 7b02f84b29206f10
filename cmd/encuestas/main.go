// Command encuestas is the local survey builder and respondent portal:
// an admin edits surveys held in a local SQLite file and two demo users
// can log in to see their assigned survey. Everything is local; there is
// no server and nothing is ever submitted anywhere.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"encuestas-local/internal/db"
	"encuestas-local/internal/models"
	"encuestas-local/internal/rules"
	"encuestas-local/internal/services"
	"encuestas-local/internal/store"
	"encuestas-local/internal/utils"
)

type app struct {
	store    *store.Store
	surveys  *services.SurveyService
	session  *services.SessionService
	stats    *services.StatsService
	transfer *services.TransferService
	locale   string
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	dbPath := utils.SafeEnv("ENCUESTAS_DB", "encuestas.db")
	conn, err := db.Open(dbPath)
	if err != nil {
		log.Fatalf("open %s: %v", dbPath, err)
	}
	slots, err := db.NewSlotStore(conn)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer slots.Close()

	st := store.New(slots)
	a := &app{
		store:    st,
		surveys:  services.NewSurveyService(st),
		session:  services.NewSessionService(slots, st),
		stats:    services.NewStatsService(st),
		transfer: services.NewTransferService(st),
		locale:   utils.ResolveLocale(utils.SafeEnv("ENCUESTAS_LANG", "es"), []string{"es", "en"}, "es"),
	}
	st.Subscribe(a.session.Resync)
	if err := st.Load(); err != nil {
		log.Fatalf("load surveys: %v", err)
	}
	a.session.Restore()

	if err := a.run(os.Args[1], os.Args[2:]); err != nil {
		if se, ok := services.AsServiceError(err); ok {
			fmt.Fprintln(os.Stderr, se.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "list":
		return a.cmdList()
	case "stats":
		return a.cmdStats(args)
	case "rules":
		return a.cmdRules()
	case "test":
		return a.cmdTest(args)
	case "check":
		return a.cmdCheck(args)
	case "save":
		return a.cmdSave(args)
	case "delete":
		return a.cmdDelete(args)
	case "export":
		return a.cmdExport(args)
	case "import":
		return a.cmdImport(args)
	case "reset":
		if err := a.store.Reset(); err != nil {
			return err
		}
		fmt.Println(a.t("reset.ok"))
		return nil
	case "clear":
		if err := a.store.Clear(); err != nil {
			return err
		}
		fmt.Println(a.t("clear.ok"))
		return nil
	case "login":
		return a.cmdLogin(args)
	case "logout":
		if err := a.session.Logout(); err != nil {
			return err
		}
		return nil
	case "portal":
		return a.cmdPortal()
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) t(key string) string { return utils.T(a.locale, key) }

func (a *app) cmdList() error {
	status := a.store.Status()
	fmt.Println(status)
	for _, sv := range a.store.List() {
		validations := 0
		for _, q := range sv.ShortTextQuestions() {
			if q.Validation != "" {
				validations++
			}
		}
		limit := a.t("time.none")
		if sv.TimeLimitMinutes != nil {
			limit = strconv.Itoa(*sv.TimeLimitMinutes) + " min"
		}
		fmt.Printf("%s\n  %s | %s | preguntas: %d | validaciones: %d | tiempo: %s\n  actualizada: %s\n",
			sv.Title, sv.ID, a.t("type."+string(sv.Type)),
			len(sv.Questions), validations, limit,
			sv.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) cmdStats(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: encuestas stats <encuesta-id>")
	}
	sum, err := a.stats.Summary(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", sum.Title, a.t("type."+string(sum.Type)))
	fmt.Printf("Total de preguntas: %d\n", sum.TotalQuestions)
	fmt.Printf("Validaciones activas: %d\n", sum.ActiveValidations)
	limit := a.t("time.none")
	if sum.TimeLimitMinutes != nil {
		limit = strconv.Itoa(*sum.TimeLimitMinutes) + " min"
	}
	fmt.Printf("Tiempo límite: %s\n", limit)
	for _, qt := range models.QuestionTypes {
		fmt.Printf("  %-16s %d\n", qt, sum.CountsByType[qt])
	}
	return nil
}

func (a *app) cmdRules() error {
	for _, r := range a.stats.RuleCatalog() {
		fmt.Printf("%-9s %s: %s (%s)\n", r.Kind, r.Label, r.Hint, r.Example)
	}
	return nil
}

func (a *app) cmdTest(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: encuestas test <encuesta-id> <índice-respuesta-corta> <valor>")
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("índice inválido %q", args[1])
	}
	ok, err := a.stats.TestValidation(args[0], idx, args[2])
	if err != nil {
		return err
	}
	if ok {
		fmt.Println(a.t("validation.ok"))
	} else {
		fmt.Println(a.t("validation.fail"))
	}
	return nil
}

func (a *app) cmdCheck(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: encuestas check <regla> <valor>")
	}
	if rules.Evaluate(args[0], args[1]) {
		fmt.Println(a.t("validation.ok"))
	} else {
		fmt.Println(a.t("validation.fail"))
	}
	return nil
}

func (a *app) cmdSave(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: encuestas save <borrador.json>")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var draft services.SurveyDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return fmt.Errorf("borrador inválido: %w", err)
	}
	created := draft.ID == ""
	doc, err := a.surveys.Save(draft)
	if err != nil {
		return err
	}
	if created {
		fmt.Println(a.t("survey.created"))
	} else {
		fmt.Println(a.t("survey.updated"))
	}
	fmt.Println(doc.ID)
	return nil
}

func (a *app) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: encuestas delete <encuesta-id>")
	}
	if err := a.surveys.Delete(args[0]); err != nil {
		return err
	}
	fmt.Println(a.t("survey.deleted"))
	return nil
}

func (a *app) cmdExport(args []string) error {
	asCSV := false
	out := services.ExportFilename
	for _, arg := range args {
		if arg == "-csv" {
			asCSV = true
			out = "encuestas-locales.csv"
		} else {
			out = arg
		}
	}
	var data []byte
	var err error
	if asCSV {
		data, err = a.transfer.ExportCSV()
	} else {
		data, err = a.transfer.ExportJSON()
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func (a *app) cmdImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: encuestas import <archivo.json>")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	n, err := a.transfer.Import(raw)
	if err != nil {
		if se, ok := services.AsServiceError(err); ok {
			return fmt.Errorf("%s: %s", a.t("import.failed"), se.Message)
		}
		return err
	}
	fmt.Printf("%s (%d)\n", a.t("import.ok"), n)
	return nil
}

func (a *app) cmdLogin(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: encuestas login <correo> <contraseña>")
	}
	sess, err := a.session.Login(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Hola, %s.\n", sess.Name)
	return a.cmdPortal()
}

// cmdPortal renders the logged-in user's assigned survey read-only, the
// way the original portal view does.
func (a *app) cmdPortal() error {
	sess := a.session.Current()
	if sess == nil {
		return services.NewUnauthorizedError("No hay una sesión activa. Usa: encuestas login <correo> <contraseña>")
	}
	survey := a.session.CurrentAssignment()
	if survey == nil {
		fmt.Println(a.t("user.none"))
		return nil
	}
	fmt.Println(a.t("user.pending"))
	fmt.Printf("\n%s\nTipo de encuesta: %s.\n\n", survey.Title, a.t("type."+string(survey.Type)))
	for i, q := range survey.Questions {
		fmt.Printf("%d. %s\n", i+1, q.Text)
		switch {
		case q.Type == models.QuestionShortText:
			r := q.Validation.Rule()
			fmt.Printf("   Respuesta corta. %s (%s)\n", r.Hint, r.Example)
		case q.Type.IsChoice():
			if q.AllowsMultiple {
				fmt.Println("   Selecciona todas las opciones que apliquen.")
			} else {
				fmt.Println("   Selecciona una opción.")
			}
			for _, opt := range q.Options {
				fmt.Printf("   - %s\n", opt.Text)
			}
		case q.Type == models.QuestionNumericScale:
			fmt.Println("   Calificación numérica del 1 al 10.")
		default:
			fmt.Println("   Pregunta informativa.")
		}
	}
	fmt.Printf("\n%s\n", a.t("portal.note"))
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `encuestas — constructor local de encuestas

  list                         lista las encuestas guardadas
  stats <id>                   resumen por tipo de pregunta
  rules                        catálogo de reglas de validación
  test <id> <n> <valor>        prueba la regla de la n-ésima respuesta corta
  check <regla> <valor>        prueba una regla del catálogo
  save <borrador.json>         crea o actualiza una encuesta
  delete <id>                  elimina una encuesta
  export [-csv] [archivo]      exporta todas las encuestas
  import <archivo.json>        reemplaza las encuestas con un archivo
  reset                        restaura los datos de ejemplo
  clear                        elimina toda la información almacenada
  login <correo> <contraseña>  inicia sesión como usuario demo
  logout                       cierra la sesión
  portal                       muestra la encuesta asignada

Variables: ENCUESTAS_DB, ENCUESTAS_LANG, ENCUESTAS_JWT_SECRET (también vía .env)`)
}
