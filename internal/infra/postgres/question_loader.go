package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"kviz/internal/domain"
	"kviz/internal/logging"

	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads question banks from Postgres. Untagged rows belong to
// every category.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadBank(ctx context.Context, category string) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, prompt, choices, correct, category FROM questions
		 WHERE $1::text = '' OR category = $1::text OR category = ''
		 ORDER BY id`, category)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	defer rows.Close()

	var bank []domain.Question
	for rows.Next() {
		var (
			id, prompt, tag string
			choices         []byte
			correct         int
		)
		if err := rows.Scan(&id, &prompt, &choices, &correct, &tag); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q, err := questionFromRow(id, prompt, choices, correct, tag)
		if err != nil {
			logging.Verbosef("[Postgres] skipping question %s: %v", id, err)
			continue
		}
		bank = append(bank, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	if len(bank) == 0 {
		return nil, domain.ErrBankNotFound
	}
	return bank, nil
}

func questionFromRow(id, prompt string, rawChoices []byte, correct int, category string) (domain.Question, error) {
	var choices []string
	if err := json.Unmarshal(rawChoices, &choices); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal choices: %w", err)
	}
	q := domain.Question{ID: id, Prompt: prompt, Choices: choices, Correct: correct, Category: category}
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}
