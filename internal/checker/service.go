// Package checker compares question papers against the stored corpus of
// earlier assessments and imports papers into it.
package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/qcheck/internal/extract"
	"github.com/abhisek/qcheck/internal/similarity"
	"github.com/abhisek/qcheck/internal/store"
	"github.com/abhisek/qcheck/internal/table"
)

// UnknownUnit is the topic used for imported questions without a unit.
const UnknownUnit = "Unknown Unit"

var (
	// ErrNoQuestions is returned when an input yields no question candidates.
	ErrNoQuestions = errors.New("no valid questions found in uploaded file")

	// ErrNoName is returned when an assessment name is blank.
	ErrNoName = errors.New("assessment name is required")
)

// ImportResult summarises an import.
type ImportResult struct {
	AssessmentID    int64  `json:"assessment_id"`
	AssessmentName  string `json:"assessment_name"`
	CandidatesFound int    `json:"total_question_candidates_found"`
	Saved           int    `json:"questions_saved_to_db"`
}

// Service runs checks and imports against a store.
type Service struct {
	topics      store.TopicRepo
	assessments store.AssessmentRepo
	questions   store.QuestionRepo
	logger      *zap.Logger
}

// NewService creates a Service backed by s.
func NewService(s *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		topics:      s.Topics(),
		assessments: s.Assessments(),
		questions:   s.Questions(),
		logger:      logger.Named("checker"),
	}
}

// Check extracts questions from g, keeping repeats so they can be flagged,
// and compares them against every stored question.
func (s *Service) Check(ctx context.Context, name string, g table.Grid) (Report, error) {
	res := extract.Extract(g, extract.Options{KeepDuplicates: true})
	if len(res.Records) == 0 {
		return Report{}, ErrNoQuestions
	}
	s.logger.Debug("extracted questions",
		zap.String("mode", string(res.Mode)),
		zap.Int("blocks", len(res.Blocks)),
		zap.Int("records", len(res.Records)))
	return s.Classify(ctx, name, res.Records, nil)
}

// Classify compares already extracted records. A nil corpus means the stored
// corpus; a non-nil one, even empty, is used as given.
func (s *Service) Classify(ctx context.Context, name string, records []extract.Record, corpus []similarity.Entry) (Report, error) {
	if len(records) == 0 {
		return Report{}, ErrNoQuestions
	}
	if corpus == nil {
		var err error
		if corpus, err = s.storedCorpus(ctx); err != nil {
			return Report{}, err
		}
	}

	rep := Compare(records, corpus)
	rep.Assessment = strings.TrimSpace(name)
	rep.RunID = uuid.NewString()

	s.logger.Info("check complete",
		zap.String("run_id", rep.RunID),
		zap.String("assessment", rep.Assessment),
		zap.Int("questions", rep.TotalQuestions),
		zap.Int("corpus", len(corpus)),
		zap.Float64("overall", rep.Overall),
		zap.Int("duplicates_within_upload", rep.DuplicatesWithinUpload))
	return rep, nil
}

func (s *Service) storedCorpus(ctx context.Context) ([]similarity.Entry, error) {
	rows, err := s.questions.Corpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	out := make([]similarity.Entry, len(rows))
	for i, r := range rows {
		out[i] = similarity.Entry{Text: r.Text, Source: r.Assessment}
	}
	return out, nil
}

// Import extracts deduplicated questions from g and files them under the
// named assessment. Questions already stored under the same assessment,
// unit and marks are not added twice.
func (s *Service) Import(ctx context.Context, name string, g table.Grid) (ImportResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ImportResult{}, ErrNoName
	}
	records := extract.Extract(g, extract.Options{}).Records
	if len(records) == 0 {
		return ImportResult{}, ErrNoQuestions
	}

	a, err := s.assessments.GetOrCreate(ctx, name)
	if err != nil {
		return ImportResult{}, fmt.Errorf("assessment %q: %w", name, err)
	}

	out := ImportResult{AssessmentID: a.ID, AssessmentName: a.Name, CandidatesFound: len(records)}
	for _, r := range records {
		marks, _ := extract.NormalizeMarks(r.MarksRaw)
		unit := strings.TrimSpace(r.Unit)
		if unit == "" {
			unit = UnknownUnit
		}

		topic, err := s.topics.GetOrCreate(ctx, unit)
		if err != nil {
			return out, fmt.Errorf("topic %q: %w", unit, err)
		}
		added, err := s.questions.AddIfNotExists(ctx, store.NewQuestion{
			AssessmentID: a.ID,
			TopicID:      topic.ID,
			Marks:        marks,
			Text:         r.Question,
		})
		if err != nil {
			return out, err
		}
		if added {
			out.Saved++
		}
	}

	s.logger.Info("import complete",
		zap.String("assessment", a.Name),
		zap.Int("candidates", out.CandidatesFound),
		zap.Int("saved", out.Saved))
	return out, nil
}
