package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	"encuestas-local/internal/models"
)

// ExportFilename is the suggested name for JSON exports.
const ExportFilename = "encuestas-locales.json"

// TransferStore is the store surface the import/export paths use.
type TransferStore interface {
	List() []*models.Survey
	Replace(docs []*models.Survey) error
}

// TransferService serializes the whole document collection out and
// wholesale-replaces it on import.
type TransferService struct {
	store TransferStore
}

func NewTransferService(store TransferStore) *TransferService {
	return &TransferService{store: store}
}

// ExportJSON renders the full collection as pretty-printed JSON, the
// same layout the document slot holds.
func (s *TransferService) ExportJSON() ([]byte, error) {
	docs := s.store.List()
	if docs == nil {
		docs = []*models.Survey{}
	}
	return json.MarshalIndent(docs, "", "  ")
}

// ExportCSV renders a question inventory, one row per question.
func (s *TransferService) ExportCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"encuesta_id", "titulo", "tipo_encuesta", "pregunta_id", "pregunta", "tipo", "puntos", "validacion", "opciones"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sv := range s.store.List() {
		for _, q := range sv.Questions {
			points := ""
			if q.Points != nil {
				points = strconv.Itoa(*q.Points)
			}
			opts := make([]string, 0, len(q.Options))
			for _, o := range q.Options {
				opts = append(opts, o.Text)
			}
			row := []string{
				sv.ID, sv.Title, string(sv.Type),
				q.ID, q.Text, string(q.Type),
				points, q.Validation.String(), strings.Join(opts, "|"),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import parses a user-supplied JSON payload. The top-level value must
// be an array of survey documents; anything else is rejected and the
// existing collection is left untouched.
func (s *TransferService) Import(data []byte) (int, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		return 0, NewInvalidError("El archivo no contiene un arreglo de encuestas")
	}
	var docs []*models.Survey
	if err := json.Unmarshal(data, &docs); err != nil {
		return 0, NewInvalidError(err.Error())
	}
	if docs == nil {
		docs = []*models.Survey{}
	}
	if err := s.store.Replace(docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}
