package models

// Grade is a letter grade awarded for a course.
type Grade string

const (
	GradeO     Grade = "O"
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeE     Grade = "E"
	GradeF     Grade = "F"
	GradeR     Grade = "R"
	// GradeI marks an incomplete course; it never counts towards GPA or credits.
	GradeI Grade = "I"
)

// Grades lists every grade in display order.
var Grades = []Grade{GradeO, GradeAPlus, GradeA, GradeBPlus, GradeB, GradeC, GradeD, GradeE, GradeF, GradeR, GradeI}

var gradePoints = map[Grade]float64{
	GradeO:     10,
	GradeAPlus: 9,
	GradeA:     8,
	GradeBPlus: 7,
	GradeB:     6,
	GradeC:     5,
	GradeD:     4,
	GradeE:     0,
	GradeF:     0,
	GradeR:     0,
}

// Points returns the grade point value. The boolean is false for grades that are not counted.
func (g Grade) Points() (float64, bool) {
	p, ok := gradePoints[g]
	return p, ok
}

// Counted reports whether the grade contributes to GPA and credit totals.
func (g Grade) Counted() bool {
	_, ok := gradePoints[g]
	return ok
}

// Valid reports whether g belongs to the grade scale.
func (g Grade) Valid() bool {
	return g == GradeI || g.Counted()
}
