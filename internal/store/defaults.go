package store

import (
	"encoding/json"
	"time"

	"encuestas-local/internal/models"
	"encuestas-local/internal/normalize"
	"encuestas-local/internal/rules"
)

func intPtr(v int) *int { return &v }

// DefaultSurveys builds the seed data used whenever the document slot is
// absent or unreadable: one mixed survey whose three questions cover a
// validated short answer, a numeric scale and a multiselect with the
// canonical "other" option.
func DefaultSurveys(now time.Time) []*models.Survey {
	return []*models.Survey{
		{
			ID:               models.NewID("encuesta"),
			Title:            "Encuesta de satisfacción interna",
			Type:             models.SurveyMixed,
			MinScore:         intPtr(70),
			MaxAttempts:      intPtr(2),
			TimeLimitMinutes: intPtr(20),
			CreatedAt:        now,
			UpdatedAt:        now,
			Questions: []models.Question{
				{
					ID:         models.NewID("pregunta"),
					Text:       "¿Cuál es tu correo de contacto?",
					Type:       models.QuestionShortText,
					Validation: rules.Correo,
				},
				{
					ID:   models.NewID("pregunta"),
					Text: "Califica tu satisfacción general",
					Type: models.QuestionNumericScale,
				},
				{
					ID:             models.NewID("pregunta"),
					Text:           "Selecciona los beneficios que más utilizas",
					Type:           models.QuestionMultiselect,
					Points:         intPtr(10),
					AllowsMultiple: true,
					Options: []models.Option{
						{ID: models.NewID("opcion"), Text: "Seguro médico"},
						{ID: models.NewID("opcion"), Text: "Capacitaciones internas"},
						{ID: models.NewID("opcion"), Text: "Trabajo remoto"},
						{ID: models.NewID("opcion"), Text: normalize.CanonicalOther},
					},
				},
			},
			Responses: []json.RawMessage{},
		},
	}
}
