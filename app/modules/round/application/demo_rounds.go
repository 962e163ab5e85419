package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
)

// demoRounds are sample rounds at well known courses.
var demoRounds = []rounddomain.RoundInput{
	{Date: "2024-01-15", Course: "Pebble Beach Golf Links", Rating: 72.8, Slope: 145, Gross: 85},
	{Date: "2024-01-22", Course: "Augusta National", Rating: 78.1, Slope: 137, Gross: 92},
	{Date: "2024-01-29", Course: "St. Andrews Old Course", Rating: 72.9, Slope: 133, Gross: 88},
	{Date: "2024-02-05", Course: "TPC Sawgrass", Rating: 76.4, Slope: 155, Gross: 89},
	{Date: "2024-02-12", Course: "Whistling Straits", Rating: 77.2, Slope: 152, Gross: 91},
}

// DemoSource tags events for rounds created by LoadDemoRounds.
const DemoSource = "demo"

// LoadDemoRounds stores the five sample rounds.
func (s *RoundService) LoadDemoRounds(ctx context.Context, ownerID string) (ImportOperationResult, error) {
	return withTelemetry(s, ctx, "LoadDemoRounds", ownerID, func(ctx context.Context) (ImportOperationResult, error) {
		now := s.clock.NowUTC()
		rounds := make([]rounddomain.Round, 0, len(demoRounds))
		for _, in := range demoRounds {
			rounds = append(rounds, rounddomain.NewRound(ownerID, in, now))
		}
		return s.storeBatch(ctx, ownerID, DemoSource, rounds, nil)
	})
}
