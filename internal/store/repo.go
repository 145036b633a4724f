package store

import "context"

// Topic is a unit or topic name questions are filed under.
type Topic struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Assessment is an imported question paper.
type Assessment struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// Question is a stored assessment question. Text is kept normalised.
type Question struct {
	ID           int64  `json:"id"`
	AssessmentID int64  `json:"assessment_id"`
	TopicID      int64  `json:"topic_id"`
	Topic        string `json:"topic"`
	Marks        int    `json:"marks"`
	Text         string `json:"question_text"`
}

// CorpusQuestion pairs a stored question with the assessment it came from.
type CorpusQuestion struct {
	Text       string `json:"question_text"`
	Assessment string `json:"assessment"`
}

// NewQuestion is the input to QuestionRepo.AddIfNotExists.
type NewQuestion struct {
	AssessmentID int64
	TopicID      int64
	Marks        int
	Text         string
}

// TopicRepo manages topics.
type TopicRepo interface {
	// GetOrCreate returns the topic with the trimmed name, creating it if needed.
	GetOrCreate(ctx context.Context, name string) (Topic, error)
}

// AssessmentRepo manages assessments.
type AssessmentRepo interface {
	// GetOrCreate returns the assessment with the trimmed name, creating it
	// if needed.
	GetOrCreate(ctx context.Context, name string) (Assessment, error)

	// List returns all assessments, newest first, with question counts.
	List(ctx context.Context) ([]Assessment, error)

	// Get returns one assessment or ErrNotFound.
	Get(ctx context.Context, id int64) (Assessment, error)

	// Delete removes an assessment and its questions, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// QuestionRepo manages assessment questions.
type QuestionRepo interface {
	// AddIfNotExists stores q unless the same normalised text is already
	// filed under the same assessment, topic and marks. It reports whether a
	// row was added.
	AddIfNotExists(ctx context.Context, q NewQuestion) (bool, error)

	// ByAssessment lists the questions of one assessment in insertion order.
	ByAssessment(ctx context.Context, assessmentID int64) ([]Question, error)

	// Corpus returns every stored question with its assessment name, in
	// insertion order.
	Corpus(ctx context.Context) ([]CorpusQuestion, error)
}
