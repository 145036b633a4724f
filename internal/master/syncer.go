package master

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/qcheck/internal/extract"
	"github.com/abhisek/qcheck/internal/sheets"
	"github.com/abhisek/qcheck/internal/similarity"
)

// Detail statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Detail actions.
const (
	ActionSkipped       = "skipped"
	ActionAddedReframed = "added_to_reframed_questions"
)

// ActionAddedMarks is the action for a question appended to a marks tab.
func ActionAddedMarks(marks int) string {
	return fmt.Sprintf("added_to_%d_marks", marks)
}

// Detail is the outcome for one record.
type Detail struct {
	Question string `json:"question"`
	Unit     string `json:"unit"`
	Marks    int    `json:"marks,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`

	Score           float64             `json:"similarity_percentage,omitempty"`
	Band            similarity.Band     `json:"band,omitempty"`
	Category        similarity.Category `json:"category,omitempty"`
	Action          string              `json:"action,omitempty"`
	ClosestQuestion string              `json:"closest_question,omitempty"`
}

// Summary is the outcome of one Run.
type Summary struct {
	MasterURL         string   `json:"master_sheet_url"`
	MasterTab         string   `json:"master_tab_name"`
	DryRun            bool     `json:"dry_run,omitempty"`
	Extracted         int      `json:"total_extracted_questions"`
	AddedNew          int      `json:"added_new"`
	AddedReframed     int      `json:"added_reframed"`
	SkippedDuplicates int      `json:"skipped_duplicates"`
	UnitOpenErrors    int      `json:"unit_open_errors"`
	Details           []Detail `json:"details"`
}

// Syncer files records into unit spreadsheets.
type Syncer struct {
	svc    sheets.Service
	logger *zap.Logger
	dryRun bool
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// WithDryRun classifies records without writing to any spreadsheet.
func WithDryRun(dry bool) Option {
	return func(s *Syncer) { s.dryRun = dry }
}

// NewSyncer creates a Syncer reading and writing through svc.
func NewSyncer(svc sheets.Service, opts ...Option) *Syncer {
	s := &Syncer{svc: svc, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.Named("master")
	return s
}

// unitSheet is the per-run state of one unit spreadsheet.
type unitSheet struct {
	ss         sheets.Spreadsheet
	worksheets []sheets.Worksheet
	existing   []string
	headers    map[int][]string
	loaded     bool
}

// run holds the caches of a single Run call.
type run struct {
	*Syncer
	units   UnitMap
	sheets  map[string]*unitSheet
	summary *Summary
}

// Run looks up the master tab, then files each record into the unit sheet
// its unit fuzzy-matches. Duplicates of questions already in the unit are
// skipped, new questions go to the marks tab and reframed ones to the
// reframed tab. Per-record failures are reported in the summary; only a
// master sheet failure is returned as an error.
func (s *Syncer) Run(ctx context.Context, records []extract.Record, url, tab string) (Summary, error) {
	units, err := BuildUnitMap(ctx, s.svc, url, tab)
	if err != nil {
		return Summary{}, fmt.Errorf("read master sheet: %w", err)
	}
	s.logger.Info("unit map loaded", zap.Int("units", units.Len()))

	sum := Summary{
		MasterURL: url,
		MasterTab: tab,
		DryRun:    s.dryRun,
		Extracted: len(records),
		Details:   make([]Detail, 0, len(records)),
	}
	r := &run{Syncer: s, units: units, sheets: make(map[string]*unitSheet), summary: &sum}
	for _, rec := range records {
		if strings.TrimSpace(rec.Question) == "" {
			continue
		}
		sum.Details = append(sum.Details, r.file(ctx, rec))
	}

	s.logger.Info("master sync complete",
		zap.Bool("dry_run", s.dryRun),
		zap.Int("extracted", sum.Extracted),
		zap.Int("added_new", sum.AddedNew),
		zap.Int("added_reframed", sum.AddedReframed),
		zap.Int("skipped_duplicates", sum.SkippedDuplicates),
		zap.Int("unit_open_errors", sum.UnitOpenErrors))
	return sum, nil
}

func (r *run) file(ctx context.Context, rec extract.Record) Detail {
	q := strings.TrimSpace(rec.Question)
	unit := strings.TrimSpace(rec.Unit)
	marks, _ := extract.NormalizeMarks(rec.MarksRaw)

	fail := func(unit, format string, args ...any) Detail {
		return Detail{Question: q, Unit: unit, Marks: marks, Status: StatusError, Message: fmt.Sprintf(format, args...)}
	}

	if unit == "" {
		return fail("", "Unit missing")
	}
	if !extract.ValidMarks(marks) {
		return fail(unit, "Marks not 2/4/8/16")
	}

	key, score := similarity.BestOption(unit, r.units.Keys())
	if key == "" || score < UnitMatchThreshold {
		return fail(unit, "Unit not found (best=%s, score=%.2f)", key, score)
	}

	us, err := r.open(ctx, r.units.Link(key))
	if err != nil {
		r.summary.UnitOpenErrors++
		r.logger.Warn("unit sheet open failed", zap.String("unit", key), zap.Error(err))
		return fail(key, "Unit sheet open failed: %v", err)
	}
	marksWS, err := sheets.MarksWorksheet(us.worksheets, marks)
	if err != nil {
		return fail(key, "Marks worksheet missing: %v", err)
	}
	r.loadExisting(ctx, us)

	best, sim := similarity.BestOption(q, us.existing)
	res := similarity.Evaluate(sim)
	d := Detail{
		Question:        q,
		Unit:            key,
		Marks:           marks,
		Status:          StatusOK,
		Score:           round2(sim),
		Band:            res.Band,
		Category:        res.Category,
		ClosestQuestion: best,
	}
	row := sheets.RowInput{Question: q, Answer: rec.Answer, Bloom: rec.Bloom}

	switch res.Category {
	case similarity.CategoryDuplicate:
		r.summary.SkippedDuplicates++
		d.Action = ActionSkipped

	case similarity.CategoryNew:
		if err := r.appendNew(ctx, us, marksWS, marks, row); err != nil {
			return fail(key, "Append failed: %v", err)
		}
		r.summary.AddedNew++
		us.existing = append(us.existing, q)
		d.Action = ActionAddedMarks(marks)

	case similarity.CategoryReframed:
		if err := r.appendReframed(ctx, us, row); err != nil {
			return fail(key, "Reframed append failed: %v", err)
		}
		r.summary.AddedReframed++
		us.existing = append(us.existing, q)
		d.Action = ActionAddedReframed
	}
	return d
}

// open returns the cached unit sheet for url. Failures are not cached, so a
// later record for the same unit tries again.
func (r *run) open(ctx context.Context, url string) (*unitSheet, error) {
	if us, ok := r.sheets[url]; ok {
		return us, nil
	}
	ss, err := r.svc.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	wss, err := ss.Worksheets(ctx)
	if err != nil {
		return nil, err
	}
	us := &unitSheet{ss: ss, worksheets: wss, headers: make(map[int][]string)}
	r.sheets[url] = us
	return us, nil
}

// loadExisting reads the questions of every marks tab and the reframed tab
// once per unit. Unreadable or missing tabs contribute nothing.
func (r *run) loadExisting(ctx context.Context, us *unitSheet) {
	if us.loaded {
		return
	}
	us.loaded = true

	for _, mk := range []int{2, 4, 8, 16} {
		ws, err := sheets.MarksWorksheet(us.worksheets, mk)
		if err != nil {
			continue
		}
		qs, err := sheets.ReadQuestions(ctx, ws)
		if err != nil {
			r.logger.Debug("skip unreadable marks tab", zap.String("tab", ws.Title()), zap.Error(err))
			continue
		}
		us.existing = append(us.existing, qs...)
	}

	for _, ws := range us.worksheets {
		if ws.Title() != sheets.ReframedSheetName {
			continue
		}
		qs, err := sheets.ReadQuestions(ctx, ws)
		if err != nil {
			r.logger.Debug("skip unreadable reframed tab", zap.Error(err))
			break
		}
		us.existing = append(us.existing, qs...)
		break
	}
}

func (r *run) appendNew(ctx context.Context, us *unitSheet, ws sheets.Worksheet, marks int, in sheets.RowInput) error {
	header, ok := us.headers[marks]
	if !ok {
		var err error
		if header, err = sheets.Header(ctx, ws); err != nil {
			return err
		}
		us.headers[marks] = header
	}
	if r.dryRun {
		return nil
	}
	return ws.AppendRow(ctx, sheets.BuildRow(header, in))
}

func (r *run) appendReframed(ctx context.Context, us *unitSheet, in sheets.RowInput) error {
	if r.dryRun {
		return nil
	}
	ws, err := sheets.EnsureReframedSheet(ctx, us.ss)
	if err != nil {
		return err
	}
	header, err := sheets.Header(ctx, ws)
	if err != nil {
		return err
	}
	return ws.AppendRow(ctx, sheets.BuildRow(header, in))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
