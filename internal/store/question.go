package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/qcheck/internal/textnorm"
)

type questionRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func (r *questionRepo) AddIfNotExists(ctx context.Context, nq NewQuestion) (bool, error) {
	text := textnorm.Normalize(nq.Text)
	if text == "" {
		return false, nil
	}

	q, args := r.b.Insert("assessment_questions").
		Columns("assessment_id", "topic_id", "marks", "question_text").
		Values(nq.AssessmentID, nq.TopicID, nq.Marks, text).
		OnConflict(
			entsql.ConflictColumns("assessment_id", "topic_id", "marks", "question_text"),
			entsql.DoNothing(),
		).
		Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("add question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add question: %w", err)
	}
	return n > 0, nil
}

func (r *questionRepo) ByAssessment(ctx context.Context, assessmentID int64) ([]Question, error) {
	aq := r.b.Table("assessment_questions")
	t := r.b.Table("topics")
	query, args := r.b.Select(
		aq.C("id"), aq.C("assessment_id"), aq.C("topic_id"), t.C("name"), aq.C("marks"), aq.C("question_text"),
	).
		From(aq).
		Join(t).
		On(aq.C("topic_id"), t.C("id")).
		Where(entsql.EQ(aq.C("assessment_id"), assessmentID)).
		OrderBy(aq.C("id")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("questions of assessment %d: %w", assessmentID, err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.AssessmentID, &q.TopicID, &q.Topic, &q.Marks, &q.Text); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *questionRepo) Corpus(ctx context.Context) ([]CorpusQuestion, error) {
	aq := r.b.Table("assessment_questions")
	a := r.b.Table("assessments")
	query, args := r.b.Select(aq.C("question_text"), a.C("name")).
		From(aq).
		Join(a).
		On(aq.C("assessment_id"), a.C("id")).
		OrderBy(aq.C("id")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	defer rows.Close()

	var out []CorpusQuestion
	for rows.Next() {
		var c CorpusQuestion
		if err := rows.Scan(&c.Text, &c.Assessment); err != nil {
			return nil, fmt.Errorf("scan corpus question: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
