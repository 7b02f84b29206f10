package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"encuestas-local/internal/rules"
)

// SurveyType classifies a survey document.
type SurveyType string

const (
	SurveyOpinion SurveyType = "opinion"
	SurveyQuiz    SurveyType = "quiz"
	SurveyMixed   SurveyType = "mixed"
)

// QuestionType classifies a question inside a survey.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionMultiselect    QuestionType = "multiselect"
	QuestionShortText      QuestionType = "short_text"
	QuestionNumericScale   QuestionType = "numeric_scale"
)

// QuestionTypes lists every question type in display order.
var QuestionTypes = []QuestionType{
	QuestionMultipleChoice,
	QuestionMultiselect,
	QuestionShortText,
	QuestionNumericScale,
}

// IsChoice reports whether the type carries an option list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionMultipleChoice || t == QuestionMultiselect
}

// Survey is the persisted unit: one survey, its settings and questions.
// The JSON keys are the original storage format, so exports produced by
// earlier versions of the tool import unchanged.
type Survey struct {
	ID               string            `json:"id"`
	Title            string            `json:"titulo" validate:"required"`
	Type             SurveyType        `json:"tipo_encuesta" validate:"oneof=opinion quiz mixed"`
	MinScore         *int              `json:"puntaje_minimo"`
	MaxAttempts      *int              `json:"intentos_maximos"`
	TimeLimitMinutes *int              `json:"tiempo_limite_minutos"`
	CreatedAt        time.Time         `json:"creado_en"`
	UpdatedAt        time.Time         `json:"actualizado_en"`
	Questions        []Question        `json:"preguntas" validate:"min=1,dive"`
	Responses        []json.RawMessage `json:"respuestas"`
}

// Question belongs to exactly one survey; order is display order.
type Question struct {
	ID             string       `json:"id"`
	Text           string       `json:"texto" validate:"required"`
	Type           QuestionType `json:"tipo" validate:"oneof=multiple_choice multiselect short_text numeric_scale"`
	Points         *int         `json:"puntos"`
	AllowsMultiple bool         `json:"permitir_multiple"`
	Validation     rules.Kind   `json:"validacion,omitempty"`
	Options        []Option     `json:"opciones"`
}

// Option belongs to exactly one question. IsCorrect records scoring
// intent only; nothing in this app evaluates it.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"texto"`
	IsCorrect bool   `json:"es_correcta"`
}

// ApplyTypeRules enforces the invariants derived from the question type:
// AllowsMultiple is true exactly for multiselect, validation rules exist
// only on short_text, and option lists only on choice questions. Callers
// never set these by hand.
func (q *Question) ApplyTypeRules() {
	q.AllowsMultiple = q.Type == QuestionMultiselect
	if q.Type != QuestionShortText {
		q.Validation = ""
	} else if q.Validation != "" {
		q.Validation = rules.ParseKind(string(q.Validation))
	}
	if !q.Type.IsChoice() {
		q.Options = nil
	}
}

// ShortTextQuestions returns the short_text questions in display order.
func (s *Survey) ShortTextQuestions() []Question {
	var out []Question
	for _, q := range s.Questions {
		if q.Type == QuestionShortText {
			out = append(out, q)
		}
	}
	return out
}

// DemoUser is one of the fixed portal identities. PassHash is a bcrypt
// hash even though this is demo-only auth.
type DemoUser struct {
	ID               string
	Name             string
	Email            string
	PassHash         []byte
	AssignedSurveyID string
}

// Session is the persisted record for the currently logged-in user.
// Field names mirror the original session slot layout; Token is an
// HS256-signed addition verified on restore.
type Session struct {
	ID               string `json:"id"`
	Name             string `json:"nombre"`
	Email            string `json:"correo"`
	AssignedSurveyID string `json:"encuestaAsignada,omitempty"`
	Token            string `json:"token,omitempty"`
}

// NewID builds an opaque prefixed identifier, e.g. "encuesta-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
