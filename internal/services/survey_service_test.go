package services

import (
	"encoding/json"
	"testing"
	"time"

	"encuestas-local/internal/normalize"
	"encuestas-local/internal/rules"
	"encuestas-local/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)
}

func newEditor(t *testing.T) (*SurveyService, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemorySlots())
	svc := NewSurveyService(st)
	svc.now = fixedNow
	return svc, st
}

func validDraft() SurveyDraft {
	return SurveyDraft{
		Title: "Encuesta de clima",
		Type:  "opinion",
		Questions: []QuestionDraft{
			{Text: "¿Cuál es tu correo?", Type: "short_text", Validation: "correo"},
		},
	}
}

func TestSaveCreatesDocument(t *testing.T) {
	svc, st := newEditor(t)

	draft := validDraft()
	draft.MinScore = "0"
	draft.MaxAttempts = "abc"
	draft.TimeLimitMinutes = ""

	doc, err := svc.Save(draft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("created document has no id")
	}
	if doc.MinScore == nil || *doc.MinScore != 0 {
		t.Errorf("MinScore = %v, literal 0 must survive", doc.MinScore)
	}
	if doc.MaxAttempts != nil {
		t.Errorf("non-numeric MaxAttempts should be nil, got %v", *doc.MaxAttempts)
	}
	if doc.TimeLimitMinutes != nil {
		t.Errorf("empty TimeLimitMinutes should be nil")
	}
	if !doc.CreatedAt.Equal(fixedNow()) || !doc.UpdatedAt.Equal(fixedNow()) {
		t.Errorf("timestamps not stamped: %v / %v", doc.CreatedAt, doc.UpdatedAt)
	}
	if st.Get(doc.ID) == nil {
		t.Fatal("document not persisted to the store")
	}
	if doc.Questions[0].Validation != rules.Correo {
		t.Errorf("validation = %s, want correo", doc.Questions[0].Validation)
	}
}

func TestSaveRejectsEmptyTitleAndNoQuestions(t *testing.T) {
	svc, st := newEditor(t)

	noTitle := validDraft()
	noTitle.Title = "   "
	if _, err := svc.Save(noTitle); err == nil {
		t.Fatal("empty title accepted")
	} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("want invalid ServiceError, got %v", err)
	}

	noQuestions := validDraft()
	noQuestions.Questions = nil
	if _, err := svc.Save(noQuestions); err == nil {
		t.Fatal("draft without questions accepted")
	}

	if len(st.List()) != 0 {
		t.Fatal("rejected drafts must leave the store untouched")
	}
}

func TestSaveRejectsEmptyQuestionText(t *testing.T) {
	svc, st := newEditor(t)
	draft := validDraft()
	draft.Questions = append(draft.Questions, QuestionDraft{Text: "  ", Type: "numeric_scale"})
	if _, err := svc.Save(draft); err == nil {
		t.Fatal("question without text accepted")
	}
	if len(st.List()) != 0 {
		t.Fatal("store must stay untouched")
	}
}

func TestSaveEnforcesTypeInvariants(t *testing.T) {
	svc, _ := newEditor(t)
	draft := SurveyDraft{
		Title: "Invariantes",
		Type:  "mixed",
		Questions: []QuestionDraft{
			{
				Text:       "Elige varias",
				Type:       "multiselect",
				Validation: "correo", // must be cleared: not short_text
				Options: []OptionDraft{
					{Text: "OTRO"},
					{Text: "Seguro médico", IsCorrect: true},
				},
			},
			{
				Text:    "Escala",
				Type:    "numeric_scale",
				Options: []OptionDraft{{Text: "no debería existir"}},
			},
			{
				Text:       "Texto corto",
				Type:       "short_text",
				Validation: "regla-desconocida",
			},
		},
	}
	doc, err := svc.Save(draft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	multi := doc.Questions[0]
	if !multi.AllowsMultiple {
		t.Error("multiselect must derive AllowsMultiple=true")
	}
	if multi.Validation != "" {
		t.Errorf("validation must be cleared off non-short_text, got %q", multi.Validation)
	}
	if multi.Options[0].Text != normalize.CanonicalOther {
		t.Errorf("option not normalized: %q", multi.Options[0].Text)
	}
	if !multi.Options[1].IsCorrect {
		t.Error("IsCorrect flag lost")
	}

	scale := doc.Questions[1]
	if scale.AllowsMultiple {
		t.Error("numeric_scale must not allow multiple")
	}
	if len(scale.Options) != 0 {
		t.Error("options must be cleared off non-choice questions")
	}

	short := doc.Questions[2]
	if short.Validation != rules.Libre {
		t.Errorf("unknown rule name must fall back to libre, got %q", short.Validation)
	}
}

func TestSaveUpdatePreservesCreatedAtAndResponses(t *testing.T) {
	svc, st := newEditor(t)
	doc, err := svc.Save(validDraft())
	if err != nil {
		t.Fatal(err)
	}

	// Simulate forward-compat response records already persisted.
	doc.Responses = []json.RawMessage{json.RawMessage(`{"x":1}`)}
	if err := st.Put(doc); err != nil {
		t.Fatal(err)
	}

	later := fixedNow().Add(time.Hour)
	svc.now = func() time.Time { return later }

	update := validDraft()
	update.ID = doc.ID
	update.Title = "Encuesta de clima (v2)"
	updated, err := svc.Save(update)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != doc.ID {
		t.Error("update must keep the id")
	}
	if !updated.CreatedAt.Equal(fixedNow()) {
		t.Errorf("CreatedAt must be preserved, got %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt must be refreshed, got %v", updated.UpdatedAt)
	}
	if len(updated.Responses) != 1 {
		t.Error("response records must survive updates")
	}
	if len(st.List()) != 1 {
		t.Fatalf("update must replace, not append: %d documents", len(st.List()))
	}

	missing := validDraft()
	missing.ID = "encuesta-desaparecida"
	if _, err := svc.Save(missing); err == nil {
		t.Fatal("update of a missing document accepted")
	} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("want not_found, got %v", err)
	}
}

func TestDeleteSurvey(t *testing.T) {
	svc, st := newEditor(t)
	doc, err := svc.Save(validDraft())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(st.List()) != 0 {
		t.Fatal("document not removed")
	}
	if err := svc.Delete(doc.ID); err == nil {
		t.Fatal("second delete should be not_found")
	}
}

func TestParseOptionalInt(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"12.5", nil},
		{"0", intPtr(0)},
		{"70", intPtr(70)},
		{" 20 ", intPtr(20)},
		{"-3", intPtr(-3)},
	}
	for _, tc := range cases {
		got := ParseOptionalInt(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("ParseOptionalInt(%q) = %d, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("ParseOptionalInt(%q) = %v, want %d", tc.in, got, *tc.want)
		}
	}
}

func intPtr(v int) *int { return &v }
