package catalog

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	CoursesPerGrade = 10
	moduleCount     = 4
)

var topics = map[Subject][CoursesPerGrade]string{
	SubjectMathematics: {
		"Number Sense", "Fractions and Ratios", "Linear Equations", "Geometry Foundations", "Probability",
		"Statistics", "Functions", "Quadratics", "Trigonometry", "Calculus Preview",
	},
	SubjectPhysics: {
		"Motion", "Forces", "Energy", "Waves", "Light and Optics",
		"Electricity", "Magnetism", "Thermodynamics", "Modern Physics", "Astrophysics",
	},
	SubjectChemistry: {
		"Matter and Mixtures", "Atomic Structure", "Periodic Table", "Chemical Bonds", "Reactions",
		"Stoichiometry", "Acids and Bases", "Gases", "Organic Chemistry", "Electrochemistry",
	},
	SubjectBiology: {
		"Cells", "Genetics", "Evolution", "Ecology", "Human Body",
		"Plants", "Microorganisms", "Biochemistry", "Neuroscience", "Biotechnology",
	},
	SubjectComputerScience: {
		"Algorithms", "Programming Basics", "Data Structures", "Networks", "Databases",
		"Cybersecurity", "Web Development", "Artificial Intelligence", "Operating Systems", "Software Design",
	},
}

var moduleStages = [moduleCount]string{"Introduction", "Core Concepts", "Practice", "Assessment"}

// NewRand returns a source seeded from seed, or from the clock when seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds the full synthetic catalog. Only progress depends on rng.
func Generate(rng *rand.Rand) []Course {
	out := make([]Course, 0, len(Subjects)*(MaxGrade-MinGrade+1)*CoursesPerGrade)
	for _, s := range Subjects {
		for g := MinGrade; g <= MaxGrade; g++ {
			for i := 1; i <= CoursesPerGrade; i++ {
				out = append(out, newCourse(s, g, i, rng.IntN(101)))
			}
		}
	}
	return out
}

func newCourse(s Subject, grade, index, progress int) Course {
	topic := topics[s][index-1]
	title := fmt.Sprintf("%s %d: %s", s, grade, topic)

	modules := make([]string, 0, moduleCount)
	for _, stage := range moduleStages {
		modules = append(modules, title+" - "+stage)
	}

	return Course{
		ID:          CourseID(s, grade, index),
		Subject:     s,
		Grade:       grade,
		Title:       title,
		Description: fmt.Sprintf("Explore %s in %s for grade %d students.", topic, s, grade),
		Modules:     modules,
		Progress:    progress,
	}
}
