package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

// getOrCreateByName upserts a row keyed by its unique name column and returns
// its id. Concurrent callers racing on the same name all get the same row.
func getOrCreateByName(ctx context.Context, db *sql.DB, b *entsql.DialectBuilder, table, name string) (int64, string, error) {
	name = strings.TrimSpace(name)

	q, args := b.Insert(table).
		Columns("name").
		Values(name).
		OnConflict(entsql.ConflictColumns("name"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, q, args...); err != nil {
		return 0, "", fmt.Errorf("insert %s %q: %w", table, name, err)
	}

	t := b.Table(table)
	q, args = b.Select(t.C("id")).
		From(t).
		Where(entsql.EQ(t.C("name"), name)).
		Query()
	var id int64
	if err := db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", fmt.Errorf("%s %q: %w", table, name, ErrNotFound)
		}
		return 0, "", fmt.Errorf("query %s %q: %w", table, name, err)
	}
	return id, name, nil
}

type topicRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func (r *topicRepo) GetOrCreate(ctx context.Context, name string) (Topic, error) {
	id, name, err := getOrCreateByName(ctx, r.db, r.b, "topics", name)
	if err != nil {
		return Topic{}, err
	}
	return Topic{ID: id, Name: name}, nil
}
