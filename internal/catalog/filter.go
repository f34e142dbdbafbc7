package catalog

import (
	"strconv"
	"strings"

	"CourseBrowser/internal/fuzzy"
)

// Apply narrows courses by grade, subject and progress bucket, then ranks the
// remainder against the query. It never mutates its input. Filter values
// outside their enumerations yield an empty result.
func Apply(courses []Course, f Filters, s *fuzzy.Searcher) []Course {
	if !validFilters(f) {
		return []Course{}
	}

	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if f.Grade != GradeAll && c.Grade != f.Grade {
			continue
		}
		if f.Subject != SubjectAll && c.Subject != f.Subject {
			continue
		}
		if !f.Progress.Match(c.Progress) {
			continue
		}
		out = append(out, c)
	}

	q := strings.TrimSpace(f.Query)
	if q == "" || s == nil {
		return out
	}
	return fuzzy.Search(s, q, out, searchKeys)
}

func searchKeys(c Course) []string {
	return []string{c.Title, c.Description, string(c.Subject), strconv.Itoa(c.Grade)}
}

func validFilters(f Filters) bool {
	if f.Grade != GradeAll && (f.Grade < MinGrade || f.Grade > MaxGrade) {
		return false
	}
	if f.Subject != SubjectAll && !f.Subject.Valid() {
		return false
	}
	switch f.Progress {
	case ProgressAll, ProgressNot, ProgressIn, ProgressDone:
	default:
		return false
	}
	return true
}
