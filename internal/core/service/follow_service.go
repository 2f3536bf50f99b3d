package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

// FollowService maintains the symmetric follow graph.
type FollowService struct {
	profiles ports.ProfileRepository
	repairs  ports.RepairQueue
	log      zerolog.Logger
}

// NewFollowService returns a FollowService. repairs may be nil, in which case
// half-applied edges are left for the periodic sweep.
func NewFollowService(profiles ports.ProfileRepository, repairs ports.RepairQueue, log zerolog.Logger) *FollowService {
	return &FollowService{profiles: profiles, repairs: repairs, log: log}
}

func (s *FollowService) Follow(ctx context.Context, actorUserID, targetPublicID string) error {
	actor, target, err := s.resolve(ctx, actorUserID, targetPublicID)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if actor.ID == target.ID {
		return domain.ErrSelfFollow
	}
	if actor.IsFollowing(target.ID) {
		return domain.ErrAlreadyFollowing
	}

	err = s.profiles.AddFollow(ctx, actor.ID, target.ID)
	if err := s.settle(err, actor.ID, target.ID); err != nil {
		return fmt.Errorf("follow: %w", err)
	}

	s.log.Info().Str("profile_id", actor.ID).Str("target", target.ID).Msg("followed")
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, actorUserID, targetPublicID string) error {
	actor, target, err := s.resolve(ctx, actorUserID, targetPublicID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if actor.ID == target.ID {
		return domain.ErrSelfUnfollow
	}
	if !actor.IsFollowing(target.ID) {
		return domain.ErrNotFollowing
	}

	err = s.profiles.RemoveFollow(ctx, actor.ID, target.ID)
	if err := s.settle(err, actor.ID, target.ID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}

	s.log.Info().Str("profile_id", actor.ID).Str("target", target.ID).Msg("unfollowed")
	return nil
}

func (s *FollowService) Followers(ctx context.Context, publicID string) ([]domain.ProfileSummary, error) {
	p, err := s.profiles.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("followers: %w", err)
	}
	return s.summaries(ctx, p.Followers)
}

func (s *FollowService) Following(ctx context.Context, publicID string) ([]domain.ProfileSummary, error) {
	p, err := s.profiles.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("following: %w", err)
	}
	return s.summaries(ctx, p.Following)
}

func (s *FollowService) resolve(ctx context.Context, actorUserID, targetPublicID string) (*domain.Profile, *domain.Profile, error) {
	actor, err := s.profiles.FindByUserID(ctx, actorUserID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, nil, domain.ErrNoActingProfile
	}
	if err != nil {
		return nil, nil, err
	}
	target, err := s.profiles.FindByPublicID(ctx, targetPublicID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}

// settle turns a half-applied write into success plus a queued repair; the
// follower side has already been written and is authoritative.
func (s *FollowService) settle(err error, followerID, followeeID string) error {
	if err == nil || !errors.Is(err, domain.ErrEdgeDiverged) {
		return err
	}
	s.log.Warn().Err(err).
		Str("profile_id", followerID).
		Str("target", followeeID).
		Msg("follow edge diverged, scheduling repair")
	if s.repairs != nil {
		s.repairs.Enqueue(ports.EdgeRepair{FollowerID: followerID, FolloweeID: followeeID})
	}
	return nil
}

func (s *FollowService) summaries(ctx context.Context, ids []string) ([]domain.ProfileSummary, error) {
	out := make([]domain.ProfileSummary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	profiles, err := s.profiles.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out = append(out, p.Summary())
	}
	return out, nil
}
