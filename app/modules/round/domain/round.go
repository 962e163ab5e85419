package rounddomain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO 8601 calendar date format used for round dates.
const DateLayout = "2006-01-02"

// Bounds accepted when recording a round.
const (
	MinSlope  = 55
	MaxSlope  = 155
	MinRating = 50.0
	MaxRating = 90.0
)

// ErrInvalidRound marks round input that fails validation.
var ErrInvalidRound = errors.New("invalid round")

// Round is a recorded round. Rounds are never mutated after creation.
type Round struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      string    `json:"-"`
	Date         string    `json:"date"`
	Course       string    `json:"course"`
	Rating       float64   `json:"rating"`
	Slope        int       `json:"slope"`
	Gross        int       `json:"gross"`
	Differential float64   `json:"differential"`
	OCRRaw       string    `json:"ocrRaw,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RoundInput is the confirmed form data a round is created from.
type RoundInput struct {
	Date     string  `json:"date"`
	Course   string  `json:"course"`
	Rating   float64 `json:"rating"`
	Slope    int     `json:"slope"`
	Gross    int     `json:"gross"`
	OCRRaw   string  `json:"ocrRaw,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Validate checks the input against the bounds the calculator relies on.
// All field problems are reported together, each wrapping ErrInvalidRound.
func (in RoundInput) Validate() error {
	var errs []error
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		errs = append(errs, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidRound, in.Date))
	}
	if strings.TrimSpace(in.Course) == "" {
		errs = append(errs, fmt.Errorf("%w: course is required", ErrInvalidRound))
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		errs = append(errs, fmt.Errorf("%w: rating %.1f outside [%.0f, %.0f]", ErrInvalidRound, in.Rating, MinRating, MaxRating))
	}
	if in.Slope < MinSlope || in.Slope > MaxSlope {
		errs = append(errs, fmt.Errorf("%w: slope %d outside [%d, %d]", ErrInvalidRound, in.Slope, MinSlope, MaxSlope))
	}
	if in.Gross <= 0 {
		errs = append(errs, fmt.Errorf("%w: gross must be positive", ErrInvalidRound))
	}
	return errors.Join(errs...)
}

// NewRound builds a round for owner from validated input, fixing its differential.
func NewRound(ownerID string, in RoundInput, createdAt time.Time) Round {
	return Round{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Date:         in.Date,
		Course:       strings.TrimSpace(in.Course),
		Rating:       in.Rating,
		Slope:        in.Slope,
		Gross:        in.Gross,
		Differential: Differential(in.Gross, in.Rating, in.Slope),
		OCRRaw:       in.OCRRaw,
		ImageURL:     in.ImageURL,
		CreatedAt:    createdAt,
	}
}

// Differentials returns the stored differentials of rounds in the given order.
func Differentials(rounds []Round) []float64 {
	out := make([]float64, len(rounds))
	for i, r := range rounds {
		out[i] = r.Differential
	}
	return out
}

// IndexSummary describes a computed handicap index.
type IndexSummary struct {
	Index         float64 `json:"index"`
	RoundsPlayed  int     `json:"roundsPlayed"`
	RoundsCounted int     `json:"roundsCounted"`
}

// Summarize computes the index summary for differentials ordered oldest first.
func Summarize(differentials []float64) IndexSummary {
	considered := min(len(differentials), IndexWindow)
	return IndexSummary{
		Index:         HandicapIndex(differentials),
		RoundsPlayed:  len(differentials),
		RoundsCounted: CountedDifferentials(considered),
	}
}
