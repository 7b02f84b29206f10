package services

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"encuestas-local/internal/models"
	"encuestas-local/internal/normalize"
	"encuestas-local/internal/rules"
)

// SurveyStore is the slice of the document store the editor needs.
type SurveyStore interface {
	Get(id string) *models.Survey
	Put(doc *models.Survey) error
	Delete(id string) (bool, error)
	List() []*models.Survey
}

// SurveyService turns raw form input into validated survey documents.
// It owns the editor invariants: derived AllowsMultiple, validation
// rules only on short_text, options only on choice questions.
type SurveyService struct {
	store    SurveyStore
	now      func() time.Time
	validate *validator.Validate
}

func NewSurveyService(store SurveyStore) *SurveyService {
	return &SurveyService{
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
		validate: validator.New(),
	}
}

// OptionDraft is one option row as typed by the administrator.
type OptionDraft struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"texto"`
	IsCorrect bool   `json:"es_correcta,omitempty"`
}

// QuestionDraft is one question block from the editor form. Points
// arrives as raw text; empty or non-numeric input means "unset".
type QuestionDraft struct {
	ID         string        `json:"id,omitempty"`
	Text       string        `json:"texto"`
	Type       string        `json:"tipo"`
	Points     string        `json:"puntos,omitempty"`
	Validation string        `json:"validacion,omitempty"`
	Options    []OptionDraft `json:"opciones,omitempty"`
}

// SurveyDraft is the whole editor form. An empty ID means create. The
// JSON tags let the CLI accept a draft file with the same field names
// the documents use.
type SurveyDraft struct {
	ID               string          `json:"id,omitempty"`
	Title            string          `json:"titulo"`
	Type             string          `json:"tipo_encuesta"`
	MinScore         string          `json:"puntaje_minimo,omitempty"`
	MaxAttempts      string          `json:"intentos_maximos,omitempty"`
	TimeLimitMinutes string          `json:"tiempo_limite_minutos,omitempty"`
	Questions        []QuestionDraft `json:"preguntas"`
}

// ParseOptionalInt parses a base-10 integer out of user text. Empty or
// non-numeric input yields nil rather than an error: these are optional
// fields, and a literal 0 must survive.
func ParseOptionalInt(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &v
}

func buildQuestion(d QuestionDraft) models.Question {
	id := d.ID
	if id == "" {
		id = models.NewID("pregunta")
	}
	qType := models.QuestionType(d.Type)
	if d.Type == "" {
		qType = models.QuestionMultipleChoice
	}

	q := models.Question{
		ID:     id,
		Text:   strings.TrimSpace(d.Text),
		Type:   qType,
		Points: ParseOptionalInt(d.Points),
	}
	if qType == models.QuestionShortText {
		name := d.Validation
		if name == "" {
			name = string(rules.Libre)
		}
		q.Validation = rules.ParseKind(name)
	}
	if qType.IsChoice() {
		q.Options = make([]models.Option, 0, len(d.Options))
		for _, od := range d.Options {
			oid := od.ID
			if oid == "" {
				oid = models.NewID("opcion")
			}
			q.Options = append(q.Options, models.Option{
				ID:        oid,
				Text:      normalize.Option(od.Text),
				IsCorrect: od.IsCorrect,
			})
		}
	}
	q.ApplyTypeRules()
	return q
}

// Save validates the draft and creates or updates the document. On any
// rejection the store is left untouched.
func (s *SurveyService) Save(draft SurveyDraft) (*models.Survey, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" || len(draft.Questions) == 0 {
		return nil, NewInvalidError("Debes agregar al menos una pregunta para guardar la encuesta.")
	}

	questions := make([]models.Question, 0, len(draft.Questions))
	for _, qd := range draft.Questions {
		q := buildQuestion(qd)
		if q.Text == "" {
			return nil, NewInvalidError("Cada pregunta debe incluir su texto.")
		}
		questions = append(questions, q)
	}

	now := s.now()
	doc := &models.Survey{
		ID:               draft.ID,
		Title:            title,
		Type:             models.SurveyType(draft.Type),
		MinScore:         ParseOptionalInt(draft.MinScore),
		MaxAttempts:      ParseOptionalInt(draft.MaxAttempts),
		TimeLimitMinutes: ParseOptionalInt(draft.TimeLimitMinutes),
		CreatedAt:        now,
		UpdatedAt:        now,
		Questions:        questions,
		Responses:        nil,
	}

	if draft.ID != "" {
		existing := s.store.Get(draft.ID)
		if existing == nil {
			return nil, NewNotFoundError("Encuesta no encontrada")
		}
		doc.CreatedAt = existing.CreatedAt
		doc.Responses = existing.Responses
	} else {
		doc.ID = models.NewID("encuesta")
	}
	if doc.Responses == nil {
		doc.Responses = []json.RawMessage{}
	}

	if err := s.validate.Struct(doc); err != nil {
		return nil, NewInvalidError(err.Error())
	}
	if err := s.store.Put(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the document with the given id.
func (s *SurveyService) Delete(id string) error {
	removed, err := s.store.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return NewNotFoundError("Encuesta no encontrada")
	}
	return nil
}
