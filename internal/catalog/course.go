package catalog

import "strconv"

type Subject string

const (
	SubjectAll             Subject = "all"
	SubjectMathematics     Subject = "Mathematics"
	SubjectPhysics         Subject = "Physics"
	SubjectChemistry       Subject = "Chemistry"
	SubjectBiology         Subject = "Biology"
	SubjectComputerScience Subject = "Computer Science"
)

// Subjects lists the enumerated subjects in generation order.
var Subjects = []Subject{
	SubjectMathematics,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectComputerScience,
}

var subjectAbbr = map[Subject]string{
	SubjectMathematics:     "MAT",
	SubjectPhysics:         "PHY",
	SubjectChemistry:       "CHE",
	SubjectBiology:         "BIO",
	SubjectComputerScience: "CS",
}

func (s Subject) Valid() bool {
	_, ok := subjectAbbr[s]
	return ok
}

func (s Subject) Abbr() string { return subjectAbbr[s] }

const (
	MinGrade = 6
	MaxGrade = 12

	// GradeAll is the grade filter sentinel; real grades are never zero.
	GradeAll = 0
)

type ProgressBucket string

const (
	ProgressAll  ProgressBucket = "all"
	ProgressNot  ProgressBucket = "not"
	ProgressIn   ProgressBucket = "in"
	ProgressDone ProgressBucket = "done"
)

// Match reports whether p falls into the bucket. Unknown buckets match nothing.
func (b ProgressBucket) Match(p int) bool {
	switch b {
	case ProgressAll:
		return true
	case ProgressNot:
		return p == 0
	case ProgressIn:
		return p > 0 && p < 100
	case ProgressDone:
		return p == 100
	default:
		return false
	}
}

type Course struct {
	ID          string   `json:"courseId"`
	Subject     Subject  `json:"subject"`
	Grade       int      `json:"grade"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Modules     []string `json:"modules"`
	Progress    int      `json:"progress"`
}

func CourseID(s Subject, grade, index int) string {
	return s.Abbr() + "-" + strconv.Itoa(grade) + "-" + strconv.Itoa(index)
}

type Filters struct {
	Query    string         `json:"query"`
	Grade    int            `json:"grade"`
	Subject  Subject        `json:"subject"`
	Progress ProgressBucket `json:"progress"`
}

func DefaultFilters() Filters {
	return Filters{
		Grade:    GradeAll,
		Subject:  SubjectAll,
		Progress: ProgressAll,
	}
}
