package services

import (
	"testing"

	"encuestas-local/internal/models"
	"encuestas-local/internal/rules"
	"encuestas-local/internal/store"
)

func statsFixture(t *testing.T) (*StatsService, *models.Survey) {
	t.Helper()
	st := store.New(store.NewMemorySlots())
	doc := &models.Survey{
		ID:               "encuesta-1",
		Title:            "Fixture",
		Type:             models.SurveyMixed,
		TimeLimitMinutes: intPtr(20),
		Questions: []models.Question{
			{ID: "q1", Text: "Correo", Type: models.QuestionShortText, Validation: rules.Correo},
			{ID: "q2", Text: "Comentario", Type: models.QuestionShortText, Validation: rules.Libre},
			{ID: "q3", Text: "Escala", Type: models.QuestionNumericScale},
			{ID: "q4", Text: "Multi", Type: models.QuestionMultiselect, AllowsMultiple: true},
		},
	}
	if err := st.Put(doc); err != nil {
		t.Fatal(err)
	}
	return NewStatsService(st), doc
}

func TestSummaryCounts(t *testing.T) {
	svc, doc := statsFixture(t)

	sum, err := svc.Summary(doc.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalQuestions != 4 {
		t.Errorf("TotalQuestions = %d", sum.TotalQuestions)
	}
	want := map[models.QuestionType]int{
		models.QuestionMultipleChoice: 0,
		models.QuestionMultiselect:    1,
		models.QuestionShortText:      2,
		models.QuestionNumericScale:   1,
	}
	for qt, n := range want {
		got, ok := sum.CountsByType[qt]
		if !ok {
			t.Errorf("counts missing zero-filled entry for %s", qt)
		}
		if got != n {
			t.Errorf("counts[%s] = %d, want %d", qt, got, n)
		}
	}
	if sum.ActiveValidations != 2 {
		t.Errorf("ActiveValidations = %d, want 2", sum.ActiveValidations)
	}
	if sum.TimeLimitMinutes == nil || *sum.TimeLimitMinutes != 20 {
		t.Error("time limit not carried through")
	}

	if _, err := svc.Summary("encuesta-inexistente"); err == nil {
		t.Fatal("missing survey should be not_found")
	}
}

func TestTestValidation(t *testing.T) {
	svc, doc := statsFixture(t)

	ok, err := svc.TestValidation(doc.ID, 0, "nombre@empresa.com")
	if err != nil || !ok {
		t.Fatalf("correo probe: ok=%v err=%v", ok, err)
	}
	ok, err = svc.TestValidation(doc.ID, 0, "sin-arroba")
	if err != nil || ok {
		t.Fatalf("invalid correo probe: ok=%v err=%v", ok, err)
	}
	// Second short_text question is libre: everything passes.
	ok, err = svc.TestValidation(doc.ID, 1, "")
	if err != nil || !ok {
		t.Fatalf("libre probe: ok=%v err=%v", ok, err)
	}
	if _, err := svc.TestValidation(doc.ID, 2, "x"); err == nil {
		t.Fatal("out-of-range short_text index should fail")
	}
	if _, err := svc.TestValidation("otra", 0, "x"); err == nil {
		t.Fatal("missing survey should fail")
	}
}
