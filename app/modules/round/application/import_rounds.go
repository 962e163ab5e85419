package roundservice

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/golf-handicap/app/modules/round/application/parsers"
	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-handicap/app/modules/round/events"
	rounddb "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/repositories"
	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
)

// ImportRounds stores the rounds listed in a CSV or XLSX history file.
// Rows that fail to parse or validate are skipped and reported; the file is
// rejected only when no row is usable.
func (s *RoundService) ImportRounds(ctx context.Context, ownerID, filename string, data []byte) (ImportOperationResult, error) {
	return withTelemetry(s, ctx, "ImportRounds", ownerID, func(ctx context.Context) (ImportOperationResult, error) {
		parser, err := s.parsers.GetParser(filename)
		if err != nil {
			return ImportOperationResult{Failure: &RoundFailure{Reason: err.Error()}}, nil
		}
		history, err := parser.Parse(data)
		if err != nil {
			return ImportOperationResult{Failure: &RoundFailure{Reason: err.Error()}}, nil
		}

		anchor := roundutil.NewAnchorClock(s.clock.NowUTC())
		var (
			rounds  []rounddomain.Round
			skipped []RowFailure
		)
		for _, row := range history.Rows {
			in, problems := s.rowInput(row, anchor)
			if len(problems) > 0 {
				skipped = append(skipped, RowFailure{Line: row.Line, Reason: strings.Join(problems, "; ")})
				continue
			}
			rounds = append(rounds, rounddomain.NewRound(ownerID, in, anchor.NowUTC()))
		}

		if len(rounds) == 0 {
			errs := make([]string, 0, len(skipped))
			for _, f := range skipped {
				errs = append(errs, fmt.Sprintf("line %d: %s", f.Line, f.Reason))
			}
			return ImportOperationResult{Failure: &RoundFailure{Reason: "no valid rounds in file", Errors: errs}}, nil
		}

		return s.storeBatch(ctx, ownerID, filename, rounds, skipped)
	})
}

// rowInput converts an import row into validated round input.
func (s *RoundService) rowInput(row parsers.HistoryRow, clock roundutil.Clock) (rounddomain.RoundInput, []string) {
	var problems []string
	in := rounddomain.RoundInput{Date: row.Date, Course: row.Course}

	if v, err := strconv.ParseFloat(strings.TrimSpace(row.Rating), 64); err != nil {
		problems = append(problems, fmt.Sprintf("rating %q is not a number", row.Rating))
	} else {
		in.Rating = v
	}
	if v, err := parseWholeNumber(row.Slope); err != nil {
		problems = append(problems, fmt.Sprintf("slope %q is not a whole number", row.Slope))
	} else {
		in.Slope = v
	}
	if v, err := parseWholeNumber(row.Gross); err != nil {
		problems = append(problems, fmt.Sprintf("gross %q is not a whole number", row.Gross))
	} else {
		in.Gross = v
	}
	if len(problems) > 0 {
		return in, problems
	}

	date, err := s.dateParser.NormalizeDate(in.Date, clock)
	if err != nil {
		return in, []string{err.Error()}
	}
	in.Date = date

	if err := in.Validate(); err != nil {
		for _, e := range unwrapJoined(err) {
			problems = append(problems, e.Error())
		}
	}
	return in, problems
}

// parseWholeNumber accepts "133" and the "133.0" spreadsheets tend to export.
func parseWholeNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q has a fractional part", s)
	}
	return int(f), nil
}

// storeBatch inserts rounds in one transaction and announces them.
func (s *RoundService) storeBatch(ctx context.Context, ownerID, source string, rounds []rounddomain.Round, skipped []RowFailure) (ImportOperationResult, error) {
	models := make([]*rounddb.Round, 0, len(rounds))
	for _, r := range rounds {
		m, err := rounddb.FromDomain(r)
		if err != nil {
			return ImportOperationResult{}, err
		}
		models = append(models, m)
	}

	result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ImportOperationResult, error) {
		if err := s.repo.InsertRounds(ctx, db, models); err != nil {
			return ImportOperationResult{}, err
		}
		return ImportOperationResult{Success: &ImportSummary{
			Imported: len(rounds),
			Rounds:   rounds,
			Skipped:  skipped,
		}}, nil
	})
	if err != nil {
		return result, err
	}

	s.metrics.RecordRoundsStored(ctx, len(rounds))
	s.cache.Invalidate(ownerID)
	s.publish(ctx, roundevents.RoundsImportedV1, roundevents.RoundsImportedPayloadV1{
		OwnerID:  ownerID,
		Imported: len(rounds),
		Source:   source,
	})
	return result, nil
}
