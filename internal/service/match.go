// internal/service/match.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/audit"
	"github.com/anquilosaurios/backend-core/internal/models"
)

// ErrMatchNotFound is returned when a referenced match id does not resolve
// to a stored match summary.
var ErrMatchNotFound = errors.New("match not found")

// MatchStore is the persistence surface the match service operates on.
type MatchStore interface {
	Create(ctx context.Context, match *models.MatchSummary) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MatchSummary, error)
	GetByPlayer(ctx context.Context, playerID uuid.UUID) ([]models.MatchSummary, error)
}

// RoundInput describes one round of a finished match.
type RoundInput struct {
	RoundNumber     int            `json:"round_number"`
	WinnersIDs      []uuid.UUID    `json:"winners_ids"`
	DeathsPerPlayer map[string]int `json:"deaths_per_player"`
}

// MatchInput describes a finished match to record.
type MatchInput struct {
	PlayersIDs []uuid.UUID  `json:"players_ids"`
	WinnersIDs []uuid.UUID  `json:"winners_ids"`
	Rounds     []RoundInput `json:"rounds"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    time.Time    `json:"ended_at"`
}

// MatchService records finished matches and folds the outcome into each
// participant's profile stats.
type MatchService struct {
	matches MatchStore
	users   UserStore
	auditor audit.Recorder
	logger  *logrus.Logger
}

func NewMatchService(matches MatchStore, users UserStore, auditor audit.Recorder, logger *logrus.Logger) *MatchService {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &MatchService{matches: matches, users: users, auditor: auditor, logger: logger}
}

// RecordMatch persists a match summary and updates every participant:
// the match id is linked to their profile and their cumulative stats are
// bumped (played, wins, deaths). Participants must all exist.
func (s *MatchService) RecordMatch(ctx context.Context, in MatchInput) (*models.MatchSummary, error) {
	if len(in.PlayersIDs) == 0 {
		return nil, fmt.Errorf("a match needs at least one player")
	}

	players := make([]*models.User, 0, len(in.PlayersIDs))
	for _, id := range in.PlayersIDs {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("player %s: %w", id, ErrUserNotFound)
		}
		players = append(players, user)
	}

	match := models.NewMatchSummary(in.StartedAt, in.EndedAt)
	for _, id := range in.PlayersIDs {
		match.AddPlayer(id)
	}
	for _, id := range in.WinnersIDs {
		match.AddWinner(id)
	}
	for _, r := range in.Rounds {
		match.AddRound(models.RoundSummary{
			RoundNumber:     r.RoundNumber,
			WinnersIDs:      r.WinnersIDs,
			DeathsPerPlayer: r.DeathsPerPlayer,
		})
	}

	if err := s.matches.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to record match: %w", err)
	}

	winners := make(map[uuid.UUID]bool, len(match.WinnersIDs))
	for _, id := range match.WinnersIDs {
		winners[id] = true
	}
	deaths := make(map[string]int)
	for _, r := range match.Rounds {
		for playerID, n := range r.DeathsPerPlayer {
			deaths[playerID] += n
		}
	}

	for _, user := range players {
		user.AddMatchID(match.ID)
		user.Stats.SetPlayedMatches(user.Stats.PlayedMatches + 1)
		if winners[user.ID] {
			user.Stats.SetWinnedMatches(user.Stats.WinnedMatches + 1)
		}
		if n := deaths[user.ID.String()]; n > 0 {
			user.Stats.SetDeaths(user.Stats.Deaths + n)
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update player %s after match: %w", user.ID, err)
		}
	}

	if err := s.auditor.Record(ctx, audit.ActionMatchPlayed, uuid.Nil, map[string]string{
		"match_id": match.ID.String(),
	}); err != nil {
		s.logger.WithError(err).Warn("failed to record match audit event")
	}

	return match, nil
}

// GetMatch fetches a stored match summary.
func (s *MatchService) GetMatch(ctx context.Context, id uuid.UUID) (*models.MatchSummary, error) {
	match, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

// GetMatchesByPlayer lists every match the player took part in.
func (s *MatchService) GetMatchesByPlayer(ctx context.Context, playerID uuid.UUID) ([]models.MatchSummary, error) {
	return s.matches.GetByPlayer(ctx, playerID)
}
