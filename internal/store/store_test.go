package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "qcheck.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	assert.Equal(t, dialect.SQLite, s.Dialect())
	assert.NoError(t, s.DB().Ping())
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qcheck.db")
	for range 2 {
		s, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestTopicGetOrCreate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Topics()

	a, err := repo.GetOrCreate(ctx, "  Unit 1  ")
	require.NoError(t, err)
	assert.Equal(t, "Unit 1", a.Name)

	b, err := repo.GetOrCreate(ctx, "Unit 1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	c, err := repo.GetOrCreate(ctx, "Unit 2")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestAssessmentLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	assessments := s.Assessments()

	first, err := assessments.GetOrCreate(ctx, "Midterm 2023")
	require.NoError(t, err)
	second, err := assessments.GetOrCreate(ctx, "Final 2023")
	require.NoError(t, err)

	again, err := assessments.GetOrCreate(ctx, "Midterm 2023 ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	list, err := assessments.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	got, err := assessments.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, Assessment{ID: first.ID, Name: "Midterm 2023"}, got)

	_, err = assessments.Get(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestQuestionsAndCascadeDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mid, err := s.Assessments().GetOrCreate(ctx, "Midterm")
	require.NoError(t, err)
	final, err := s.Assessments().GetOrCreate(ctx, "Final")
	require.NoError(t, err)
	unit, err := s.Topics().GetOrCreate(ctx, "Unit 1")
	require.NoError(t, err)

	qs := s.Questions()
	add := func(assessmentID int64, marks int, text string) bool {
		t.Helper()
		added, err := qs.AddIfNotExists(ctx, NewQuestion{
			AssessmentID: assessmentID,
			TopicID:      unit.ID,
			Marks:        marks,
			Text:         text,
		})
		require.NoError(t, err)
		return added
	}

	assert.True(t, add(mid.ID, 2, "What is recursion?"))
	assert.False(t, add(mid.ID, 2, "  what is   RECURSION? "), "same normalised text")
	assert.True(t, add(mid.ID, 4, "What is recursion?"), "different marks")
	assert.True(t, add(final.ID, 2, "Define a queue."))
	assert.False(t, add(final.ID, 2, "   "), "empty text")

	byMid, err := qs.ByAssessment(ctx, mid.ID)
	require.NoError(t, err)
	require.Len(t, byMid, 2)
	assert.Equal(t, "what is recursion?", byMid[0].Text)
	assert.Equal(t, "Unit 1", byMid[0].Topic)
	assert.Equal(t, 2, byMid[0].Marks)
	assert.Equal(t, 4, byMid[1].Marks)

	got, err := s.Assessments().Get(ctx, mid.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.QuestionCount)

	corpus, err := qs.Corpus(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CorpusQuestion{
		{Text: "what is recursion?", Assessment: "Midterm"},
		{Text: "what is recursion?", Assessment: "Midterm"},
		{Text: "define a queue.", Assessment: "Final"},
	}, corpus)

	require.NoError(t, s.Assessments().Delete(ctx, mid.ID))
	err = s.Assessments().Delete(ctx, mid.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	byMid, err = qs.ByAssessment(ctx, mid.ID)
	require.NoError(t, err)
	assert.Empty(t, byMid)

	corpus, err = qs.Corpus(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CorpusQuestion{{Text: "define a queue.", Assessment: "Final"}}, corpus)
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "sub", "custom.db")
		t.Setenv("QCHECK_DB", p)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.DirExists(t, filepath.Dir(p))
	})

	t.Run("postgres url", func(t *testing.T) {
		url := "postgres://qcheck@localhost/qcheck"
		t.Setenv("QCHECK_DB", url)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, url, got)
	})

	t.Run("xdg data home", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("QCHECK_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "qcheck", "qcheck.db"), got)
	})
}
