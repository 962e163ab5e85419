package roundservice

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-handicap/app/modules/round/events"
	rounddb "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/repositories"
)

// RecordRound validates input, fixes the differential and stores the round.
// The date may be any form the date parser understands; it is stored as YYYY-MM-DD.
func (s *RoundService) RecordRound(ctx context.Context, ownerID string, in rounddomain.RoundInput) (RoundOperationResult, error) {
	result, err := withTelemetry(s, ctx, "RecordRound", ownerID, func(ctx context.Context) (RoundOperationResult, error) {
		in, failure := s.prepareInput(in)
		if failure != nil {
			return RoundOperationResult{Failure: failure}, nil
		}

		round := rounddomain.NewRound(ownerID, in, s.clock.NowUTC())
		model, err := rounddb.FromDomain(round)
		if err != nil {
			return RoundOperationResult{}, err
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RoundOperationResult, error) {
			if err := s.repo.InsertRound(ctx, db, model); err != nil {
				return RoundOperationResult{}, err
			}
			return RoundOperationResult{Success: &round}, nil
		})
	})
	if err != nil || !result.IsSuccess() {
		return result, err
	}

	round := *result.Success
	s.metrics.RecordRoundsStored(ctx, 1)
	s.cache.Invalidate(ownerID)
	s.publish(ctx, roundevents.RoundRecordedV1, roundevents.RoundRecordedPayloadV1{
		OwnerID:      ownerID,
		RoundID:      round.ID.String(),
		Date:         round.Date,
		Course:       round.Course,
		Differential: round.Differential,
		RecordedAt:   round.CreatedAt,
	})
	return result, nil
}

// prepareInput normalizes the date and validates the rest of the input.
// Every problem is reported, not just the first.
func (s *RoundService) prepareInput(in rounddomain.RoundInput) (rounddomain.RoundInput, *RoundFailure) {
	var problems []string

	date, dateErr := s.dateParser.NormalizeDate(in.Date, s.clock)
	if dateErr != nil {
		problems = append(problems, dateErr.Error())
	} else {
		in.Date = date
	}

	if err := in.Validate(); err != nil {
		for _, e := range unwrapJoined(err) {
			if dateErr != nil && strings.HasPrefix(e.Error(), datePrefix) {
				continue
			}
			problems = append(problems, e.Error())
		}
	}

	if len(problems) > 0 {
		return in, &RoundFailure{Reason: "invalid round", Errors: problems}
	}
	return in, nil
}

var datePrefix = rounddomain.ErrInvalidRound.Error() + ": date"

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
