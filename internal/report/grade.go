// Package report computes the end-of-deck summary.
package report

import (
	"fmt"
	"math"

	"github.com/abhisek/flashcards/internal/deck"
)

// Grade is a letter grade with its display label.
type Grade struct {
	Letter string
	Label  string
	Min    float64 // inclusive lower bound on the average rating
}

// grades is ordered from highest to lowest threshold.
var grades = []Grade{
	{"A+", "Outstanding", 4.5},
	{"A", "Excellent", 4},
	{"B+", "Very Good", 3.5},
	{"B", "Good", 3},
	{"C+", "Above Average", 2.5},
	{"C", "Average", 2},
	{"D", "Needs Improvement", 1.5},
}

var gradeF = Grade{"F", "Keep Practicing", 0}

// Grades returns the grade table, highest first.
func Grades() []Grade {
	return append(append([]Grade(nil), grades...), gradeF)
}

// GradeFor maps an average rating to a letter grade.
func GradeFor(avg float64) Grade {
	for _, g := range grades {
		if avg >= g.Min {
			return g
		}
	}
	return gradeF
}

// SuccessThreshold is the rating at which an answer counts as good.
const SuccessThreshold = 3.0

// AverageRating is the mean rating, or 0 with no results.
func AverageRating(results []deck.AnswerResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Rating
	}
	return sum / float64(len(results))
}

// SuccessRate is the whole-number percentage of results rated at least
// SuccessThreshold, rounded half up. It is 0 with no results.
func SuccessRate(results []deck.AnswerResult) int {
	total := len(results)
	if total == 0 {
		return 0
	}
	good := 0
	for _, r := range results {
		if r.Rating >= SuccessThreshold {
			good++
		}
	}
	// round(100*good/total) with ties up, in integers.
	return (200*good + total) / (2 * total)
}

// FormatAverage renders an average for display.
func FormatAverage(avg float64) string {
	return fmt.Sprintf("%.2f", math.Round(avg*100)/100)
}

// Band groups a single rating for colouring.
type Band int

const (
	BandWeak Band = iota
	BandFair
	BandGood
)

// BandFor classifies a rating: >= 4 good, >= 2.5 fair, otherwise weak.
func BandFor(rating float64) Band {
	switch {
	case rating >= 4:
		return BandGood
	case rating >= 2.5:
		return BandFair
	}
	return BandWeak
}
