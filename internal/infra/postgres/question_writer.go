package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"kviz/internal/domain"
	"kviz/internal/infra/postgres/migrations"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID       string   `bun:"id,pk"`
	Prompt   string   `bun:"prompt,notnull"`
	Choices  []string `bun:"choices,type:jsonb,notnull"`
	Correct  int      `bun:"correct,notnull"`
	Category string   `bun:"category,notnull"`
}

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies every pending migration and returns the applied group.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, err
	}
	return migrator.Migrate(ctx)
}

// InsertQuestions upserts questions by id. Invalid questions are rejected before
// anything is written.
func InsertQuestions(ctx context.Context, db bun.IDB, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return 0, err
		}
		rows = append(rows, questionRow{
			ID:       q.ID,
			Prompt:   q.Prompt,
			Choices:  q.Choices,
			Correct:  q.Correct,
			Category: q.Category,
		})
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("prompt = EXCLUDED.prompt").
		Set("choices = EXCLUDED.choices").
		Set("correct = EXCLUDED.correct").
		Set("category = EXCLUDED.category").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert questions: %w", err)
	}
	return len(rows), nil
}
