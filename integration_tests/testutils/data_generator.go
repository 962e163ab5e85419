package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
)

var courseSuffixes = []string{"Golf Club", "Country Club", "Links", "Golf Course"}

// TestDataGenerator creates valid round inputs from a seeded faker.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator; the same seed yields the same data.
func NewTestDataGenerator(seed uint64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed)}
}

// RoundInput returns a valid round played on the given day.
func (g *TestDataGenerator) RoundInput(playedOn time.Time) rounddomain.RoundInput {
	course := g.faker.LastName() + " " + courseSuffixes[g.faker.IntRange(0, len(courseSuffixes)-1)]
	rating := float64(g.faker.IntRange(680, 780)) / 10
	return rounddomain.RoundInput{
		Date:   playedOn.Format(rounddomain.DateLayout),
		Course: course,
		Rating: rating,
		Slope:  g.faker.IntRange(100, 155),
		Gross:  g.faker.IntRange(72, 110),
	}
}

// RoundInputs returns n rounds played on consecutive days starting at start.
func (g *TestDataGenerator) RoundInputs(n int, start time.Time) []rounddomain.RoundInput {
	out := make([]rounddomain.RoundInput, n)
	for i := range out {
		out[i] = g.RoundInput(start.AddDate(0, 0, i))
	}
	return out
}
