package roundhandlers

import (
	"context"
	"fmt"
	"log/slog"

	roundevents "github.com/Black-And-White-Club/golf-handicap/app/modules/round/events"
	"github.com/Black-And-White-Club/golf-handicap/internal/handlerwrapper"
)

// HandleRoundRecorded recomputes the index after a single round is stored.
func (h *RoundHandlers) HandleRoundRecorded(ctx context.Context, payload *roundevents.RoundRecordedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.recomputeIndex(ctx, payload.OwnerID, roundevents.RoundRecordedV1)
}

// HandleRoundsImported recomputes the index after a batch of rounds is stored.
func (h *RoundHandlers) HandleRoundsImported(ctx context.Context, payload *roundevents.RoundsImportedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.recomputeIndex(ctx, payload.OwnerID, roundevents.RoundsImportedV1)
}

// HandleRoundsCleared recomputes the index after the owner's rounds are deleted.
func (h *RoundHandlers) HandleRoundsCleared(ctx context.Context, payload *roundevents.RoundsClearedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.recomputeIndex(ctx, payload.OwnerID, roundevents.RoundsClearedV1)
}

func (h *RoundHandlers) recomputeIndex(ctx context.Context, ownerID, trigger string) ([]handlerwrapper.Result, error) {
	if ownerID == "" {
		h.logger.WarnContext(ctx, "Ignoring round event without owner", slog.String("trigger", trigger))
		return nil, nil
	}

	summary, err := h.service.RecalculateIndex(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("recalculate handicap index: %w", err)
	}

	h.logger.InfoContext(ctx, "Handicap index recomputed",
		slog.String("owner_id", ownerID),
		slog.String("trigger", trigger),
		slog.Float64("index", summary.Index),
		slog.Int("rounds_played", summary.RoundsPlayed),
	)

	return []handlerwrapper.Result{{
		Topic: roundevents.HandicapIndexUpdatedV1,
		Payload: &roundevents.HandicapIndexUpdatedPayloadV1{
			OwnerID:       ownerID,
			Index:         summary.Index,
			RoundsPlayed:  summary.RoundsPlayed,
			RoundsCounted: summary.RoundsCounted,
			ComputedAt:    h.clock.NowUTC(),
		},
	}}, nil
}

// HandleRoundSetChanged drops this instance's cached index for the owner. It is
// delivered to every instance, unlike the recompute handlers which run once per
// event.
func (h *RoundHandlers) HandleRoundSetChanged(ctx context.Context, payload *roundevents.OwnerRefV1) ([]handlerwrapper.Result, error) {
	if payload.OwnerID == "" {
		return nil, nil
	}
	h.service.InvalidateIndex(ctx, payload.OwnerID)
	h.logger.DebugContext(ctx, "Cached handicap index invalidated", slog.String("owner_id", payload.OwnerID))
	return nil, nil
}
