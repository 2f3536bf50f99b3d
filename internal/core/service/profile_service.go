package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

type ProfileService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	posts    ports.PostRepository
	log      zerolog.Logger
}

func NewProfileService(users ports.UserRepository, profiles ports.ProfileRepository, posts ports.PostRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, posts: posts, log: log}
}

// Create builds the single profile a user may own.
func (s *ProfileService) Create(ctx context.Context, userID string, in ports.CreateProfileInput) (*domain.Profile, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.ErrEmptyUsername
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if _, err := s.profiles.FindByUserID(ctx, userID); err == nil {
		return nil, domain.ErrProfileExists
	} else if domain.KindOf(err) != domain.KindNotFound {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	now := time.Now().UTC()
	p := &domain.Profile{
		PublicID:       uuid.NewString(),
		Username:       username,
		Bio:            in.Bio,
		ProfilePicture: in.ProfilePicture,
		UserID:         userID,
		Followers:      []string{},
		Following:      []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.log.Info().Str("profile_id", p.ID).Str("user_id", userID).Msg("profile created")
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, publicID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, domain.ErrEmptyUsername
		}
		patch.Username = &username
	}
	p, err := s.profiles.Update(ctx, publicID, patch)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.log.Info().Str("profile_id", p.ID).Msg("profile updated")
	return p, nil
}

// Delete removes the profile, the edges pointing at it and its posts.
func (s *ProfileService) Delete(ctx context.Context, publicID string) (*domain.Profile, error) {
	p, err := s.profiles.Delete(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("delete profile: %w", err)
	}

	n, err := s.posts.DeleteByAuthor(ctx, p.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("profile_id", p.ID).Msg("profile deleted but its posts were not")
	}

	s.log.Info().Str("profile_id", p.ID).Int64("posts_deleted", n).Msg("profile deleted")
	return p, nil
}

func (s *ProfileService) View(ctx context.Context, publicID string) (*domain.ProfileView, error) {
	p, err := s.profiles.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("view profile: %w", err)
	}

	view := &domain.ProfileView{Profile: p}
	u, err := s.users.FindByID(ctx, p.UserID)
	switch {
	case err == nil:
		view.Owner = domain.ProfileOwner{Name: u.Name, Email: u.Email}
	case domain.KindOf(err) == domain.KindNotFound:
		s.log.Warn().Str("profile_id", p.ID).Str("user_id", p.UserID).Msg("profile owner missing")
	default:
		return nil, fmt.Errorf("view profile: %w", err)
	}
	return view, nil
}
