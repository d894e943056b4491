package service

import (
	"climblog/climbing-app/internal/domain"
	"climblog/climbing-app/internal/grade"
	"climblog/climbing-app/internal/repository"
	"climblog/climbing-app/internal/stats"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStats summarizes every climb a user has logged.
type UserStats struct {
	Hardest     domain.HardestGrades    `json:"hardest"`
	Breakdown   []domain.TypeStyleCount `json:"breakdown"`
	TotalClimbs int                     `json:"totalClimbs"`
	TotalSends  int                     `json:"totalSends"`
	Sessions    int                     `json:"sessions"`
}

type StatsService interface {
	UserStats(ctx context.Context, userID primitive.ObjectID) (*UserStats, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	climbRepo   repository.ClimbRepository
}

func NewStatsService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, climbRepo repository.ClimbRepository) StatsService {
	return &statsService{userRepo: userRepo, sessionRepo: sessionRepo, climbRepo: climbRepo}
}

func (s *statsService) UserStats(ctx context.Context, userID primitive.ObjectID) (*UserStats, error) {
	user, err := loadUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	climbs, err := s.climbRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	hardest := stats.Hardest(climbs)
	for _, rec := range []*domain.GradeRecord{hardest.Boulder, hardest.Route} {
		if rec != nil {
			rec.DisplayGrade = grade.ToDisplay(rec.Grade, rec.Type, user.GradingPreference)
		}
	}

	out := &UserStats{
		Hardest:     hardest,
		Breakdown:   stats.Breakdown(climbs),
		TotalClimbs: len(climbs),
		Sessions:    len(sessions),
	}
	for _, c := range climbs {
		if c.Send {
			out.TotalSends++
		}
	}
	return out, nil
}
