package importer

import (
	"context"
	"regexp"
	"strings"

	"pastelsoft.com/medimap/internal/roster"
)

// Parser turns raw report text into candidate patient rows. Implementations
// assign no ids and no rooms; that happens at store insertion.
type Parser interface {
	Parse(ctx context.Context, raw string) ([]roster.Candidate, error)
}

var columnSplit = regexp.MustCompile(`\t+`)

// HeuristicParser is the deterministic local fallback: one patient per line,
// columns separated by tabs in report order (name, dob, rank, role, unit,
// diagnosis, admission date). Header rows and blank names are dropped.
type HeuristicParser struct{}

// Parse implements Parser.
func (HeuristicParser) Parse(_ context.Context, raw string) ([]roster.Candidate, error) {
	var out []roster.Candidate
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := columnSplit.Split(line, -1)
		c := roster.Candidate{Name: strings.TrimSpace(col(cols, 0))}
		if c.Name == "" || isHeaderCell(c.Name) {
			continue
		}
		c.DOB = strings.TrimSpace(col(cols, 1))
		c.Rank = strings.TrimSpace(col(cols, 2))
		c.Role = strings.TrimSpace(col(cols, 3))
		c.Unit = strings.TrimSpace(col(cols, 4))
		c.Diagnosis = strings.TrimSpace(col(cols, 5))
		c.AdmissionDate = strings.TrimSpace(col(cols, 6))
		out = append(out, c)
	}
	return out, nil
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

// isHeaderCell recognizes the column-header rows that leak through when a
// whole sheet is pasted.
func isHeaderCell(name string) bool {
	switch strings.ToLower(name) {
	case "họ và tên", "họ tên", "stt":
		return true
	}
	return false
}
