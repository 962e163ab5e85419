// Package extract reads scorecard fields out of recognized text. Each field has
// its own rule; a rule that finds nothing leaves the field absent.
package extract

import (
	"regexp"
	"strconv"

	scorecarddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/domain"
)

var (
	grossPattern  = regexp.MustCompile(`(?i)(?:Total|Gross)[:\s]*(\d{2,3})`)
	ratingPattern = regexp.MustCompile(`(?i)(?:Course\s*Rating|CR|Rating)[:\s]*(\d{2}\.\d)`)
	slopePattern  = regexp.MustCompile(`(?i)(?:Slope|SR)[:\s]*(\d{2,3})`)
	// Case sensitive. A word is capitalized, optionally abbreviated with a dot.
	coursePattern = regexp.MustCompile(`([A-Z][a-z]+\.?(?:\s+[A-Z][a-z]+\.?)*\s+(?:Golf|Country|Club|Course|Links))`)
)

// Rule reads one field from text and stores it on the extraction.
type Rule struct {
	Field string
	Apply func(text string, into *scorecarddomain.Extraction) bool
}

// Rules are applied in order by Extract.
var Rules = []Rule{
	{Field: "gross", Apply: bind(Gross, func(e *scorecarddomain.Extraction, v int) { e.Gross = &v })},
	{Field: "rating", Apply: bind(Rating, func(e *scorecarddomain.Extraction, v float64) { e.Rating = &v })},
	{Field: "slope", Apply: bind(Slope, func(e *scorecarddomain.Extraction, v int) { e.Slope = &v })},
	{Field: "course", Apply: bind(Course, func(e *scorecarddomain.Extraction, v string) { e.Course = &v })},
}

func bind[T any](read func(string) (T, bool), set func(*scorecarddomain.Extraction, T)) func(string, *scorecarddomain.Extraction) bool {
	return func(text string, e *scorecarddomain.Extraction) bool {
		v, ok := read(text)
		if ok {
			set(e, v)
		}
		return ok
	}
}

// Extract applies every rule to text. The raw text is kept verbatim.
func Extract(text string) scorecarddomain.Extraction {
	e := scorecarddomain.Extraction{Raw: text}
	for _, r := range Rules {
		r.Apply(text, &e)
	}
	return e
}

// Gross reads the total score following a Total or Gross label.
func Gross(text string) (int, bool) {
	return firstInt(grossPattern, text)
}

// Rating reads a DD.D course rating following a Course Rating, CR or Rating label.
func Rating(text string) (float64, bool) {
	m := ratingPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Slope reads the slope rating following a Slope or SR label.
func Slope(text string) (int, bool) {
	return firstInt(slopePattern, text)
}

// Course reads a capitalized name ending in Golf, Country, Club, Course or Links.
func Course(text string) (string, bool) {
	m := coursePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func firstInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}
