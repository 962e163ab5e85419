package rounddb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
)

// Round is the stored form of a recorded round.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID      string    `bun:"owner_id,notnull"`
	PlayedOn     time.Time `bun:"played_on,type:date,notnull"`
	Course       string    `bun:"course,notnull"`
	Rating       float64   `bun:"rating,notnull"`
	Slope        int       `bun:"slope,notnull"`
	Gross        int       `bun:"gross,notnull"`
	Differential float64   `bun:"differential,notnull"`
	OCRRaw       string    `bun:"ocr_raw,nullzero"`
	ImageURL     string    `bun:"image_url,nullzero"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// FromDomain converts a domain round for storage.
func FromDomain(r rounddomain.Round) (*Round, error) {
	playedOn, err := time.Parse(rounddomain.DateLayout, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid round date %q: %w", r.Date, err)
	}
	return &Round{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		PlayedOn:     playedOn,
		Course:       r.Course,
		Rating:       r.Rating,
		Slope:        r.Slope,
		Gross:        r.Gross,
		Differential: r.Differential,
		OCRRaw:       r.OCRRaw,
		ImageURL:     r.ImageURL,
		CreatedAt:    r.CreatedAt,
	}, nil
}

// ToDomain converts a stored round back to the domain type.
func (m *Round) ToDomain() rounddomain.Round {
	return rounddomain.Round{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Date:         m.PlayedOn.UTC().Format(rounddomain.DateLayout),
		Course:       m.Course,
		Rating:       m.Rating,
		Slope:        m.Slope,
		Gross:        m.Gross,
		Differential: m.Differential,
		OCRRaw:       m.OCRRaw,
		ImageURL:     m.ImageURL,
		CreatedAt:    m.CreatedAt,
	}
}
