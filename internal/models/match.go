package models

import (
	"time"

	"github.com/google/uuid"
)

// RoundSummary aggregates one round of a match: who won it and how many
// times each player died. Map keys are player UUIDs in string form since
// BSON documents require string keys.
type RoundSummary struct {
	RoundNumber     int            `bson:"roundNumber" json:"round_number"`
	WinnersIDs      []uuid.UUID    `bson:"winnersIds" json:"winners_ids"`
	DeathsPerPlayer map[string]int `bson:"deathsPerPlayer" json:"deaths_per_player"`
}

// MatchSummary is the persisted record of a finished multiplayer match.
type MatchSummary struct {
	ID         uuid.UUID      `bson:"_id" json:"id"`
	PlayersIDs []uuid.UUID    `bson:"playersIds" json:"players_ids"`
	WinnersIDs []uuid.UUID    `bson:"winnersIds" json:"winners_ids"`
	Rounds     []RoundSummary `bson:"rounds" json:"rounds"`
	StartedAt  time.Time      `bson:"startedAt" json:"started_at"`
	EndedAt    time.Time      `bson:"endedAt" json:"ended_at"`
}

// NewMatchSummary builds an empty match record with a fresh id.
func NewMatchSummary(startedAt, endedAt time.Time) *MatchSummary {
	return &MatchSummary{
		ID:         uuid.New(),
		PlayersIDs: []uuid.UUID{},
		WinnersIDs: []uuid.UUID{},
		Rounds:     []RoundSummary{},
		StartedAt:  startedAt,
		EndedAt:    endedAt,
	}
}

// AddRound appends a round summary.
func (m *MatchSummary) AddRound(r RoundSummary) {
	m.Rounds = append(m.Rounds, r)
}

// AddPlayer records a participant, rejecting duplicates.
func (m *MatchSummary) AddPlayer(playerID uuid.UUID) {
	for _, id := range m.PlayersIDs {
		if id == playerID {
			return
		}
	}
	m.PlayersIDs = append(m.PlayersIDs, playerID)
}

// AddWinner records a match winner, rejecting duplicates.
func (m *MatchSummary) AddWinner(winnerID uuid.UUID) {
	for _, id := range m.WinnersIDs {
		if id == winnerID {
			return
		}
	}
	m.WinnersIDs = append(m.WinnersIDs, winnerID)
}
