package services

import (
	"encoding/csv"
	"strings"
	"testing"

	"encuestas-local/internal/store"
)

func TestImportRejectsNonArray(t *testing.T) {
	st := store.New(store.NewMemorySlots())
	if err := st.Load(); err != nil {
		t.Fatal(err)
	}
	before := len(st.List())
	svc := NewTransferService(st)

	for _, payload := range []string{`{"id":"x"}`, `"texto"`, `42`, ``} {
		if _, err := svc.Import([]byte(payload)); err == nil {
			t.Fatalf("payload %q accepted", payload)
		} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
			t.Fatalf("want invalid ServiceError, got %v", err)
		}
	}
	if len(st.List()) != before {
		t.Fatal("rejected import must leave the store untouched")
	}
}

func TestImportReplacesStore(t *testing.T) {
	st := store.New(store.NewMemorySlots())
	if err := st.Load(); err != nil {
		t.Fatal(err)
	}
	svc := NewTransferService(st)

	payload := `[
  {"id": "encuesta-x", "titulo": "Importada", "tipo_encuesta": "quiz",
   "puntaje_minimo": null, "intentos_maximos": null, "tiempo_limite_minutos": 15,
   "creado_en": "2024-05-30T12:00:00.000Z", "actualizado_en": "2024-05-30T12:00:00.000Z",
   "preguntas": [
     {"id": "p1", "texto": "¿Fecha?", "tipo": "short_text", "puntos": null,
      "permitir_multiple": false, "validacion": "fecha", "opciones": []}
   ],
   "respuestas": []}
]`
	n, err := svc.Import([]byte(payload))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 1 {
		t.Fatalf("imported %d documents, want 1", n)
	}
	list := st.List()
	if len(list) != 1 || list[0].ID != "encuesta-x" {
		t.Fatalf("store not replaced: %+v", list)
	}
	if list[0].Questions[0].Validation != "fecha" {
		t.Errorf("validation lost on import: %q", list[0].Questions[0].Validation)
	}

	// An empty array is a valid import too.
	if n, err := svc.Import([]byte("[]")); err != nil || n != 0 {
		t.Fatalf("empty array import: n=%d err=%v", n, err)
	}
	if len(st.List()) != 0 {
		t.Fatal("empty import should empty the store")
	}
}

func TestExportJSONIsPrettyAndRoundTrips(t *testing.T) {
	st := store.New(store.NewMemorySlots())
	if err := st.Load(); err != nil {
		t.Fatal(err)
	}
	svc := NewTransferService(st)

	data, err := svc.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(string(data), "[\n") {
		t.Fatalf("export is not a pretty-printed array: %q", string(data)[:16])
	}

	other := store.New(store.NewMemorySlots())
	if err := other.Load(); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTransferService(other).Import(data); err != nil {
		t.Fatalf("re-import of export failed: %v", err)
	}
	if len(other.List()) != len(st.List()) {
		t.Fatal("export/import round trip lost documents")
	}
}

func TestExportCSVOneRowPerQuestion(t *testing.T) {
	st := store.New(store.NewMemorySlots())
	if err := st.Load(); err != nil { // defaults: 1 survey, 3 questions
		t.Fatal(err)
	}
	svc := NewTransferService(st)

	data, err := svc.ExportCSV()
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 4 { // header + 3 questions
		t.Fatalf("csv has %d rows, want 4", len(rows))
	}
	if rows[0][0] != "encuesta_id" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][7] != "correo" {
		t.Errorf("first question validation column = %q, want correo", rows[1][7])
	}
	if !strings.Contains(rows[3][8], "|") {
		t.Errorf("multiselect options column should be pipe-joined: %q", rows[3][8])
	}
}
