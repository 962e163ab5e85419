// Package roundevents defines the topics and payloads the round module publishes.
package roundevents

import "time"

// Topics
const (
	// RoundRecordedV1 is published after a round is stored.
	RoundRecordedV1 = "round.recorded.v1"
	// RoundsImportedV1 is published after an import or demo load stores rounds.
	RoundsImportedV1 = "rounds.imported.v1"
	// RoundsClearedV1 is published after an owner's rounds are deleted.
	RoundsClearedV1 = "rounds.cleared.v1"
	// HandicapIndexUpdatedV1 is published after an owner's index is recomputed.
	HandicapIndexUpdatedV1 = "handicap.index.updated.v1"
)

// RoundSetChangedTopics are the topics published whenever an owner's stored
// rounds change. Each payload carries the owner under "owner_id".
var RoundSetChangedTopics = []string{RoundRecordedV1, RoundsImportedV1, RoundsClearedV1}

// OwnerRefV1 decodes the owner from any round-set change payload.
type OwnerRefV1 struct {
	OwnerID string `json:"owner_id"`
}

// RoundRecordedPayloadV1 describes a newly stored round.
type RoundRecordedPayloadV1 struct {
	OwnerID      string    `json:"owner_id"`
	RoundID      string    `json:"round_id"`
	Date         string    `json:"date"`
	Course       string    `json:"course"`
	Differential float64   `json:"differential"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// RoundsImportedPayloadV1 describes a batch of stored rounds.
type RoundsImportedPayloadV1 struct {
	OwnerID  string `json:"owner_id"`
	Imported int    `json:"imported"`
	Source   string `json:"source"`
}

// RoundsClearedPayloadV1 describes a bulk delete.
type RoundsClearedPayloadV1 struct {
	OwnerID string `json:"owner_id"`
	Deleted int    `json:"deleted"`
}

// HandicapIndexUpdatedPayloadV1 carries a freshly computed index.
type HandicapIndexUpdatedPayloadV1 struct {
	OwnerID       string    `json:"owner_id"`
	Index         float64   `json:"index"`
	RoundsPlayed  int       `json:"rounds_played"`
	RoundsCounted int       `json:"rounds_counted"`
	ComputedAt    time.Time `json:"computed_at"`
}
