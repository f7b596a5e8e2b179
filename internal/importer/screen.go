package importer

import (
	"strings"

	"pastelsoft.com/medimap/internal/roster"
)

// Result is the outcome of screening a candidate batch. Accepted preserves
// the input order of the surviving candidates.
type Result struct {
	Accepted       []roster.Candidate `json:"accepted"`
	DuplicateCount int                `json:"duplicateCount"`
	InvalidCount   int                `json:"invalidCount"`
}

// Screen validates and deduplicates a candidate batch against the existing
// roster. It is pure: neither input is mutated.
//
// A candidate is invalid unless rank, role and unit are all non-blank after
// trimming. A candidate is a duplicate when its signature matches an
// existing patient or an earlier accepted candidate from the same batch.
func Screen(candidates []roster.Candidate, existing []roster.Patient) Result {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, p := range existing {
		seen[signature(p.Name, p.Unit, p.DOB)] = struct{}{}
	}

	var res Result
	for _, c := range candidates {
		if strings.TrimSpace(c.Rank) == "" ||
			strings.TrimSpace(c.Role) == "" ||
			strings.TrimSpace(c.Unit) == "" {
			res.InvalidCount++
			continue
		}
		sig := signature(c.Name, c.Unit, c.DOB)
		if _, dup := seen[sig]; dup {
			res.DuplicateCount++
			continue
		}
		seen[sig] = struct{}{}
		res.Accepted = append(res.Accepted, c)
	}
	return res
}

// signature is the dedup key: normalized name, unit and dob. Two imports of
// the same person collide here even when casing or whitespace differ.
func signature(name, unit, dob string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" +
		strings.ToLower(strings.TrimSpace(unit)) + "|" +
		strings.TrimSpace(dob)
}
