// Package master files new questions into per-unit spreadsheets listed in a
// master spreadsheet, skipping questions the unit already has.
package master

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/qcheck/internal/sheets"
	"github.com/abhisek/qcheck/internal/similarity"
	"github.com/abhisek/qcheck/internal/textnorm"
)

// Match thresholds on the 0-100 similarity scale.
const (
	TabMatchThreshold  = 70.0
	UnitMatchThreshold = 80.0
)

// Errors returned by BuildUnitMap.
var (
	ErrTabNotFound   = errors.New("master tab not found")
	ErrEmptyMaster   = errors.New("master sheet tab is empty or not readable")
	ErrMissingColumn = errors.New("column not found")
	ErrNoUnits       = errors.New("no unit mappings found (Topic / Sheet link)")
)

// UnitMap maps unit names to the URLs of their unit spreadsheets. Keys keep
// the order in which they first appear in the master tab.
type UnitMap struct {
	keys  []string
	links map[string]string
}

// Keys returns the unit names in master order.
func (u UnitMap) Keys() []string { return slices.Clone(u.keys) }

// Link returns the spreadsheet URL of unit.
func (u UnitMap) Link(unit string) string { return u.links[unit] }

// Len returns the number of units.
func (u UnitMap) Len() int { return len(u.keys) }

func (u *UnitMap) set(unit, link string) {
	if u.links == nil {
		u.links = make(map[string]string)
	}
	if _, ok := u.links[unit]; !ok {
		u.keys = append(u.keys, unit)
	}
	u.links[unit] = link
}

// BuildUnitMap reads the Topic and Sheet link columns of the master tab.
// The tab is looked up by exact title, then case-insensitively, then by
// fuzzy match of at least TabMatchThreshold. Rows without a topic or with a
// link that does not start with "http" are ignored.
func BuildUnitMap(ctx context.Context, svc sheets.Service, url, tab string) (UnitMap, error) {
	ss, err := svc.Open(ctx, url)
	if err != nil {
		return UnitMap{}, err
	}
	ws, err := resolveTab(ctx, ss, tab)
	if err != nil {
		return UnitMap{}, err
	}

	values, err := ws.Values(ctx)
	if err != nil {
		return UnitMap{}, fmt.Errorf("read tab %q: %w", ws.Title(), err)
	}
	if len(values) < 2 {
		return UnitMap{}, ErrEmptyMaster
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = textnorm.Normalize(h)
	}
	col := func(name string) (int, error) {
		i := slices.Index(headers, textnorm.Normalize(name))
		if i < 0 {
			return 0, fmt.Errorf("%w: %q in headers %q", ErrMissingColumn, name, headers)
		}
		return i, nil
	}
	topicCol, err := col("Topic")
	if err != nil {
		return UnitMap{}, err
	}
	linkCol, err := col("Sheet link")
	if err != nil {
		return UnitMap{}, err
	}

	var units UnitMap
	for _, row := range values[1:] {
		if len(row) <= max(topicCol, linkCol) {
			continue
		}
		topic := textnorm.Clean(row[topicCol])
		link := textnorm.Clean(row[linkCol])
		if topic != "" && strings.HasPrefix(link, "http") {
			units.set(topic, link)
		}
	}
	if units.Len() == 0 {
		return UnitMap{}, ErrNoUnits
	}
	return units, nil
}

func resolveTab(ctx context.Context, ss sheets.Spreadsheet, tab string) (sheets.Worksheet, error) {
	ws, err := ss.Worksheet(ctx, tab)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, sheets.ErrWorksheetNotFound) {
		return nil, err
	}

	wss, err := ss.Worksheets(ctx)
	if err != nil {
		return nil, err
	}
	wanted := textnorm.Normalize(tab)
	titles := make([]string, len(wss))
	lowered := make([]string, len(wss))
	for i, w := range wss {
		titles[i] = w.Title()
		lowered[i] = textnorm.Normalize(w.Title())
	}

	if i := slices.Index(lowered, wanted); i >= 0 {
		return wss[i], nil
	}
	best, score := similarity.BestOption(wanted, lowered)
	if best == "" || score < TabMatchThreshold {
		return nil, fmt.Errorf("%w: requested %q, available tabs %q", ErrTabNotFound, tab, titles)
	}
	return wss[slices.Index(lowered, best)], nil
}
