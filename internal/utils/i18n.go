package utils

// Fixed UI strings for the CLI surface. Spanish is the canonical
// language of the tool; English entries exist as a fallback catalog.

var translations = map[string]map[string]string{
	"es": {
		"survey.created":  "Encuesta creada correctamente.",
		"survey.updated":  "Encuesta actualizada correctamente.",
		"survey.deleted":  "Encuesta eliminada.",
		"import.ok":       "Datos importados correctamente.",
		"import.failed":   "No se pudo importar el archivo",
		"reset.ok":        "Datos de ejemplo restaurados.",
		"clear.ok":        "Se eliminó toda la información almacenada.",
		"validation.ok":   "El valor cumple con la validación.",
		"validation.fail": "El valor no cumple con la validación seleccionada.",
		"user.pending":    "Tienes una encuesta pendiente por completar.",
		"user.none":       "No tienes encuestas pendientes. ¡Gracias por participar!",
		"portal.note":     "Esta vista es demostrativa y no envía respuestas a ningún servidor.",
		"type.opinion":    "Opinión",
		"type.quiz":       "Evaluación",
		"type.mixed":      "Mixta",
		"time.none":       "Sin límite",
	},
	"en": {
		"survey.created":  "Survey created.",
		"survey.updated":  "Survey updated.",
		"survey.deleted":  "Survey deleted.",
		"import.ok":       "Data imported.",
		"import.failed":   "Could not import the file",
		"reset.ok":        "Sample data restored.",
		"clear.ok":        "All stored data deleted.",
		"validation.ok":   "The value satisfies the rule.",
		"validation.fail": "The value does not satisfy the selected rule.",
		"user.pending":    "You have one pending survey.",
		"user.none":       "No pending surveys. Thanks for participating!",
		"portal.note":     "This view is demonstrative; no answers are sent anywhere.",
		"type.opinion":    "Opinion",
		"type.quiz":       "Quiz",
		"type.mixed":      "Mixed",
		"time.none":       "No limit",
	},
}

// T returns the translated string for key in locale; falls back to Spanish.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["es"][key]; ok {
		return v
	}
	return key
}
