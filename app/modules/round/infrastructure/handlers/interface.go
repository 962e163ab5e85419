package roundhandlers

import (
	"context"
	"net/http"

	roundevents "github.com/Black-And-White-Club/golf-handicap/app/modules/round/events"
	"github.com/Black-And-White-Club/golf-handicap/internal/handlerwrapper"
)

// Handlers reacts to round events by keeping the handicap index current.
type Handlers interface {
	HandleRoundRecorded(ctx context.Context, payload *roundevents.RoundRecordedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRoundsImported(ctx context.Context, payload *roundevents.RoundsImportedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRoundsCleared(ctx context.Context, payload *roundevents.RoundsClearedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRoundSetChanged(ctx context.Context, payload *roundevents.OwnerRefV1) ([]handlerwrapper.Result, error)
}

// HTTPHandlers serves the round and handicap endpoints. Every handler expects
// an authenticated owner in the request context.
type HTTPHandlers interface {
	HandleListRounds(w http.ResponseWriter, r *http.Request)
	HandleRecordRound(w http.ResponseWriter, r *http.Request)
	HandleClearRounds(w http.ResponseWriter, r *http.Request)
	HandleLoadDemoRounds(w http.ResponseWriter, r *http.Request)
	HandleImportRounds(w http.ResponseWriter, r *http.Request)
	HandleGetHandicap(w http.ResponseWriter, r *http.Request)
	HandleHandicapChart(w http.ResponseWriter, r *http.Request)
}
