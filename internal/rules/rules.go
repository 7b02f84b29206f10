package rules

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies one of the short-answer validation rules. The set is
// closed; names that do not match any kind resolve to Libre.
type Kind string

const (
	Libre    Kind = "libre"
	Cedula   Kind = "cedula"
	Telefono Kind = "telefono"
	Fecha    Kind = "fecha"
	Correo   Kind = "correo"
)

// Rule couples a predicate with the display metadata shown next to the
// short-answer field (label, hint and a sample value).
type Rule struct {
	Kind    Kind
	Label   string
	Hint    string
	Example string

	validate func(value string) bool
}

var (
	reCedula   = regexp.MustCompile(`^\d{8,10}$`)
	reTelefono = regexp.MustCompile(`^\+?\d{10,15}$`)
	reFecha    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reCorreo   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var catalog = []Rule{
	{
		Kind:     Libre,
		Label:    "Texto libre",
		Hint:     "Acepta cualquier respuesta corta sin restricciones adicionales.",
		Example:  "Ej. Comentario breve",
		validate: func(string) bool { return true },
	},
	{
		Kind:     Cedula,
		Label:    "Número de cédula",
		Hint:     "Solo números con 8 a 10 dígitos consecutivos.",
		Example:  "Ej. 0912345678",
		validate: func(v string) bool { return reCedula.MatchString(strings.TrimSpace(v)) },
	},
	{
		Kind:     Telefono,
		Label:    "Teléfono",
		Hint:     "Números nacionales o internacionales (10 a 15 dígitos) con prefijo opcional +.",
		Example:  "Ej. +593991234567",
		validate: func(v string) bool { return reTelefono.MatchString(strings.TrimSpace(v)) },
	},
	{
		Kind:     Fecha,
		Label:    "Fecha (AAAA-MM-DD)",
		Hint:     "Usa el formato ISO 8601 y valida que la fecha exista.",
		Example:  "Ej. 2024-05-30",
		validate: validDate,
	},
	{
		Kind:     Correo,
		Label:    "Correo electrónico",
		Hint:     "Verifica que exista usuario, arroba y dominio válido.",
		Example:  "Ej. nombre@empresa.com",
		validate: func(v string) bool { return reCorreo.MatchString(strings.ToLower(strings.TrimSpace(v))) },
	},
}

var byKind = func() map[Kind]Rule {
	m := make(map[Kind]Rule, len(catalog))
	for _, r := range catalog {
		m[r.Kind] = r
	}
	return m
}()

// validDate accepts YYYY-MM-DD strings that name a real calendar day.
// "2024-02-30" matches the shape but normalizes to March 1st, so the
// round-trip comparison against the literal numbers rejects it.
func validDate(v string) bool {
	trimmed := strings.TrimSpace(v)
	if !reFecha.MatchString(trimmed) {
		return false
	}
	parts := strings.SplitN(trimmed, "-", 3)
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// ParseKind maps a stored rule name to its Kind. Unknown or empty names
// fall back to Libre so documents with stale rule names keep loading.
func ParseKind(name string) Kind {
	if _, ok := byKind[Kind(name)]; ok {
		return Kind(name)
	}
	return Libre
}

// Rule returns the catalog entry for k, defaulting to the Libre entry.
func (k Kind) Rule() Rule {
	if r, ok := byKind[k]; ok {
		return r
	}
	return byKind[Libre]
}

// Valid reports whether value satisfies the rule.
func (k Kind) Valid(value string) bool {
	return k.Rule().validate(value)
}

func (k Kind) String() string { return string(k) }

// Evaluate tests value against the rule registered under name.
func Evaluate(name, value string) bool {
	return ParseKind(name).Valid(value)
}

// All returns the catalog in declaration order, for display.
func All() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog)
	return out
}
