package services

import (
	"encuestas-local/internal/models"
	"encuestas-local/internal/rules"
)

// StatsReader is the read-only store view the stats tab needs.
type StatsReader interface {
	Get(id string) *models.Survey
}

// Summary is the per-survey stats projection: question counts by type,
// configured validations and the survey settings worth displaying.
type Summary struct {
	SurveyID          string
	Title             string
	Type              models.SurveyType
	TotalQuestions    int
	CountsByType      map[models.QuestionType]int
	ActiveValidations int
	TimeLimitMinutes  *int
}

type StatsService struct {
	store StatsReader
}

func NewStatsService(store StatsReader) *StatsService {
	return &StatsService{store: store}
}

// Summary counts questions by type for one survey. Counts are
// zero-filled for all four types so the display renders every bar.
func (s *StatsService) Summary(surveyID string) (*Summary, error) {
	survey := s.store.Get(surveyID)
	if survey == nil {
		return nil, NewNotFoundError("No se encontró la encuesta seleccionada.")
	}

	counts := make(map[models.QuestionType]int, len(models.QuestionTypes))
	for _, t := range models.QuestionTypes {
		counts[t] = 0
	}
	active := 0
	for _, q := range survey.Questions {
		counts[q.Type]++
		if q.Type == models.QuestionShortText && q.Validation != "" {
			active++
		}
	}
	return &Summary{
		SurveyID:          survey.ID,
		Title:             survey.Title,
		Type:              survey.Type,
		TotalQuestions:    len(survey.Questions),
		CountsByType:      counts,
		ActiveValidations: active,
		TimeLimitMinutes:  survey.TimeLimitMinutes,
	}, nil
}

// TestValidation evaluates a probe value against the rule of the nth
// short_text question of the survey (the ordering the stats tab shows).
func (s *StatsService) TestValidation(surveyID string, shortTextIndex int, value string) (bool, error) {
	survey := s.store.Get(surveyID)
	if survey == nil {
		return false, NewNotFoundError("No se encontró la encuesta seleccionada.")
	}
	short := survey.ShortTextQuestions()
	if shortTextIndex < 0 || shortTextIndex >= len(short) {
		return false, NewNotFoundError("No se encontró la pregunta seleccionada.")
	}
	return short[shortTextIndex].Validation.Valid(value), nil
}

// RuleCatalog exposes the registry metadata for display.
func (s *StatsService) RuleCatalog() []rules.Rule {
	return rules.All()
}
