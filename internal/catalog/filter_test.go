package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CourseBrowser/internal/fuzzy"
)

func testCatalog(t *testing.T) []Course {
	t.Helper()
	return Generate(NewRand(2024))
}

func ids(courses []Course) []string {
	out := make([]string, len(courses))
	for i, c := range courses {
		out[i] = c.ID
	}
	return out
}

func TestApply_DefaultsAreIdentity(t *testing.T) {
	all := testCatalog(t)

	got := Apply(all, DefaultFilters(), fuzzy.NewSearcher())
	assert.Equal(t, all, got)

	f := DefaultFilters()
	f.Query = "   "
	assert.Equal(t, all, Apply(all, f, fuzzy.NewSearcher()))
}

func TestApply_Grade(t *testing.T) {
	all := testCatalog(t)

	for g := MinGrade; g <= MaxGrade; g++ {
		f := DefaultFilters()
		f.Grade = g

		got := Apply(all, f, fuzzy.NewSearcher())
		require.Len(t, got, len(Subjects)*CoursesPerGrade)
		for _, c := range got {
			assert.Equal(t, g, c.Grade)
		}
	}
}

func TestApply_Subject(t *testing.T) {
	all := testCatalog(t)

	f := DefaultFilters()
	f.Subject = SubjectPhysics

	got := Apply(all, f, fuzzy.NewSearcher())
	require.Len(t, got, 7*CoursesPerGrade)
	for _, c := range got {
		assert.Equal(t, SubjectPhysics, c.Subject)
	}
}

func TestApply_ProgressBucketsPartition(t *testing.T) {
	all := []Course{
		{ID: "a", Subject: SubjectBiology, Grade: 6, Progress: 0},
		{ID: "b", Subject: SubjectBiology, Grade: 6, Progress: 1},
		{ID: "c", Subject: SubjectBiology, Grade: 6, Progress: 99},
		{ID: "d", Subject: SubjectBiology, Grade: 6, Progress: 100},
	}
	all = append(all, testCatalog(t)...)

	seen := map[string]ProgressBucket{}
	total := 0
	for _, b := range []ProgressBucket{ProgressNot, ProgressIn, ProgressDone} {
		f := DefaultFilters()
		f.Progress = b

		for _, c := range Apply(all, f, nil) {
			switch b {
			case ProgressNot:
				assert.Equal(t, 0, c.Progress)
			case ProgressIn:
				assert.True(t, c.Progress > 0 && c.Progress < 100, c.ID)
			case ProgressDone:
				assert.Equal(t, 100, c.Progress)
			}
			prev, dup := seen[c.ID]
			assert.Falsef(t, dup, "%s in both %s and %s", c.ID, prev, b)
			seen[c.ID] = b
			total++
		}
	}
	assert.Equal(t, len(all), total)
}

func TestApply_InvalidValuesYieldEmpty(t *testing.T) {
	all := testCatalog(t)

	cases := map[string]Filters{
		"subject":  {Grade: GradeAll, Subject: "Astrology", Progress: ProgressAll},
		"grade":    {Grade: 3, Subject: SubjectAll, Progress: ProgressAll},
		"progress": {Grade: GradeAll, Subject: SubjectAll, Progress: "halfway"},
		"zero":     {},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			got := Apply(all, f, fuzzy.NewSearcher())
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestApply_EmptyCatalog(t *testing.T) {
	f := Filters{Query: "physics", Grade: 9, Subject: SubjectPhysics, Progress: ProgressIn}

	got := Apply([]Course{}, f, fuzzy.NewSearcher())
	assert.Empty(t, got)

	got = Apply(nil, DefaultFilters(), fuzzy.NewSearcher())
	assert.Empty(t, got)
}

func TestApply_TitleSubstringIsFound(t *testing.T) {
	all := testCatalog(t)

	f := DefaultFilters()
	f.Query = "Mathematics 6: Number Sense"

	got := Apply(all, f, fuzzy.NewSearcher())
	require.NotEmpty(t, got)
	assert.Contains(t, ids(got), "MAT-6-1")
	assert.Equal(t, "MAT-6-1", got[0].ID)
}

func TestApply_QueryIsCaseInsensitiveAndTolerant(t *testing.T) {
	all := testCatalog(t)

	f := DefaultFilters()
	f.Query = "LNEAR equatons"
	f.Grade = 8

	got := Apply(all, f, fuzzy.NewSearcher())
	require.NotEmpty(t, got)
	assert.True(t, strings.Contains(got[0].Title, "Linear Equations"), got[0].Title)
}

func TestApply_QueryRanksExactMatchesFirst(t *testing.T) {
	all := testCatalog(t)

	f := DefaultFilters()
	f.Query = "forces"

	got := Apply(all, f, fuzzy.NewSearcher())
	require.GreaterOrEqual(t, len(got), 7)
	for _, c := range got[:7] {
		assert.Contains(t, c.Title, "Forces")
	}
}

func TestApply_MatchesGradeAsText(t *testing.T) {
	all := []Course{
		{ID: "x", Subject: SubjectBiology, Grade: 11, Title: "Cells", Description: "cells", Progress: 5},
		{ID: "y", Subject: SubjectBiology, Grade: 7, Title: "Cells", Description: "cells", Progress: 5},
	}

	f := DefaultFilters()
	f.Query = "11"

	assert.Equal(t, []string{"x"}, ids(Apply(all, f, fuzzy.NewSearcher())))
}

func TestApply_IsIdempotent(t *testing.T) {
	all := testCatalog(t)
	f := Filters{Query: "energy", Grade: GradeAll, Subject: SubjectPhysics, Progress: ProgressAll}

	s := fuzzy.NewSearcher()
	assert.Equal(t, Apply(all, f, s), Apply(all, f, s))
}
