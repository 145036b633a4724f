package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type assessmentRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func (r *assessmentRepo) GetOrCreate(ctx context.Context, name string) (Assessment, error) {
	id, name, err := getOrCreateByName(ctx, r.db, r.b, "assessments", name)
	if err != nil {
		return Assessment{}, err
	}
	return r.Get(ctx, id)
}

// withCounts selects assessments joined with their question counts.
func (r *assessmentRepo) withCounts() (*entsql.Selector, *entsql.SelectTable) {
	a := r.b.Table("assessments")
	q := r.b.Table("assessment_questions")
	s := r.b.Select(a.C("id"), a.C("name"), entsql.Count(q.C("id"))).
		From(a).
		LeftJoin(q).
		On(a.C("id"), q.C("assessment_id")).
		GroupBy(a.C("id"), a.C("name"))
	return s, a
}

func (r *assessmentRepo) List(ctx context.Context) ([]Assessment, error) {
	s, a := r.withCounts()
	query, args := s.OrderBy(entsql.Desc(a.C("id"))).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var as Assessment
		if err := rows.Scan(&as.ID, &as.Name, &as.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, as)
	}
	return out, rows.Err()
}

func (r *assessmentRepo) Get(ctx context.Context, id int64) (Assessment, error) {
	s, a := r.withCounts()
	query, args := s.Where(entsql.EQ(a.C("id"), id)).Query()

	var as Assessment
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&as.ID, &as.Name, &as.QuestionCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, fmt.Errorf("assessment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Assessment{}, fmt.Errorf("get assessment %d: %w", id, err)
	}
	return as, nil
}

func (r *assessmentRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// Questions go first; the FK cascade only fires with foreign_keys on.
	q, args := r.b.Delete("assessment_questions").
		Where(entsql.EQ("assessment_id", id)).
		Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete questions of assessment %d: %w", id, err)
	}

	q, args = r.b.Delete("assessments").
		Where(entsql.EQ("id", id)).
		Query()
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("delete assessment %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assessment %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("assessment %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
