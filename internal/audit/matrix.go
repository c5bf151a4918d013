package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/abhisek/satprep/internal/bank"
)

// MatrixRow is one line of the per-question audit matrix.
type MatrixRow struct {
	ID            string
	Section       string
	Topic         string
	Difficulty    string
	Template      string
	HasVisual     bool
	VisualType    string
	VisualShape   string
	AnswerIndex   int
	CorrectChoice string
	Fingerprint   string
	Valid         bool
}

func newMatrixRow(q *bank.Question, valid bool) MatrixRow {
	row := MatrixRow{
		ID:            q.ID,
		Section:       string(q.Section),
		Topic:         q.Topic,
		Difficulty:    string(q.Difficulty),
		Template:      q.Template(),
		HasVisual:     q.Visual != nil,
		AnswerIndex:   q.AnswerIndex,
		CorrectChoice: q.CorrectChoice(),
		Fingerprint:   bank.AuditFingerprint(q),
		Valid:         valid,
	}
	if row.Template == "" {
		row.Template = bank.TemplateManual
	}
	if q.Visual != nil {
		row.VisualType = q.Visual.Type
		row.VisualShape = q.Visual.Subtype()
	}
	return row
}

// MatrixHeader lists the matrix columns in output order.
var MatrixHeader = []string{
	"id", "section", "topic", "difficulty", "template", "hasVisual",
	"visualType", "visualShape", "answerIndex", "correctChoice", "fingerprint", "valid",
}

// Fields returns the row's values in MatrixHeader order.
func (r MatrixRow) Fields() []string {
	return []string{
		r.ID,
		r.Section,
		r.Topic,
		r.Difficulty,
		r.Template,
		strconv.FormatBool(r.HasVisual),
		r.VisualType,
		r.VisualShape,
		strconv.Itoa(r.AnswerIndex),
		r.CorrectChoice,
		r.Fingerprint,
		strconv.FormatBool(r.Valid),
	}
}

// WriteCSV writes a header line and one quoted line per row.
func WriteCSV(w io.Writer, rows []MatrixRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MatrixHeader); err != nil {
		return fmt.Errorf("write matrix header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("write matrix row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush matrix: %w", err)
	}
	return nil
}

// WriteCSVFile writes the matrix to path, creating parent directories.
func WriteCSVFile(path string, rows []MatrixRow) error {
	if err := bank.EnsureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create matrix: %w", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
