package postgres

import (
	"errors"
	"testing"

	"kviz/internal/domain"
)

func TestQuestionFromRow(t *testing.T) {
	q, err := questionFromRow("7", "Symbol for gold?", []byte(`["Ag","Au","Fe","Cu"]`), 1, "hemija")
	if err != nil {
		t.Fatalf("questionFromRow: %v", err)
	}
	if q.ID != "7" || len(q.Choices) != 4 || q.Choices[1] != "Au" || q.Category != "hemija" {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestQuestionFromRowRejectsBadRows(t *testing.T) {
	if _, err := questionFromRow("1", "p", []byte(`not json`), 0, ""); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if _, err := questionFromRow("1", "p", []byte(`["a","b","c"]`), 0, ""); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question, got %v", err)
	}
	if _, err := questionFromRow("1", "p", []byte(`["a","b","c","d"]`), 4, ""); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question, got %v", err)
	}
}
