package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kviz/internal/domain"
	"kviz/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

// QuestionStore keeps a question bank in a local SQLite file, for single-node
// installs without Postgres.
type QuestionStore struct {
	db *sql.DB
}

// Open opens the database at path and creates the schema if needed.
func Open(path string) (*QuestionStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// ":memory:" databases live per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &QuestionStore{db: db}
	if err := s.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *QuestionStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the questions table if it does not exist.
func (s *QuestionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS questions (
		id       TEXT PRIMARY KEY,
		prompt   TEXT NOT NULL,
		choices  TEXT NOT NULL,
		correct  INTEGER NOT NULL,
		category TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		return fmt.Errorf("create questions table: %w", err)
	}
	return nil
}

// Insert upserts questions by id in one transaction.
func (s *QuestionStore) Insert(ctx context.Context, questions []domain.Question) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (id, prompt, choices, correct, category) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET prompt=excluded.prompt, choices=excluded.choices,
		 correct=excluded.correct, category=excluded.category`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return 0, err
		}
		choices, err := json.Marshal(q.Choices)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, q.ID, q.Prompt, string(choices), q.Correct, q.Category); err != nil {
			return 0, fmt.Errorf("insert question %s: %w", q.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(questions), nil
}

// LoadBank returns the questions tagged with category plus untagged ones. An empty
// category returns everything.
func (s *QuestionStore) LoadBank(ctx context.Context, category string) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prompt, choices, correct, category FROM questions
		 WHERE ? = '' OR category = ? OR category = ''
		 ORDER BY id`, category, category)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	defer rows.Close()

	var bank []domain.Question
	for rows.Next() {
		var (
			q       domain.Question
			choices string
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &choices, &q.Correct, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(choices), &q.Choices); err != nil {
			logging.Verbosef("[SQLite] skipping question %s: %v", q.ID, err)
			continue
		}
		if err := q.Validate(); err != nil {
			logging.Verbosef("[SQLite] skipping question %s: %v", q.ID, err)
			continue
		}
		bank = append(bank, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, domain.ErrBankNotFound
	}
	return bank, nil
}
