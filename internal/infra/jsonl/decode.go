package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"kviz/internal/domain"
)

// maxLine bounds a single record; longer lines are skipped like any other bad record.
const maxLine = 1 << 20

// Decode reads one question per line. Blank, oversized, unparsable and unplayable
// lines are dropped; only a read failure is an error.
func Decode(r io.Reader) ([]domain.Question, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		out     []domain.Question
		line    []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read question records: %w", err)
		}
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLine {
				tooLong = true
				line = line[:0]
			}
		}
		if isPrefix {
			continue
		}

		if !tooLong {
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				if q, ok := decodeLine(trimmed); ok {
					out = append(out, q)
				}
			}
		}
		line = line[:0]
		tooLong = false
	}
}

func decodeLine(line []byte) (domain.Question, bool) {
	// tacan is a pointer so a missing index is not mistaken for 0
	var rec struct {
		ID       string   `json:"id"`
		Prompt   string   `json:"pitanje"`
		Choices  []string `json:"odgovori"`
		Correct  *int     `json:"tacan"`
		Category string   `json:"kategorija"`
	}
	if err := json.Unmarshal(line, &rec); err != nil || rec.Correct == nil {
		return domain.Question{}, false
	}
	q := domain.Question{
		ID:       rec.ID,
		Prompt:   rec.Prompt,
		Choices:  rec.Choices,
		Correct:  *rec.Correct,
		Category: rec.Category,
	}
	if q.Validate() != nil {
		return domain.Question{}, false
	}
	return q, true
}

// Encode writes questions in the same line format.
func Encode(w io.Writer, questions []domain.Question) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, q := range questions {
		if err := enc.Encode(q); err != nil {
			return fmt.Errorf("encode question %s: %w", q.ID, err)
		}
	}
	return nil
}
