package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

type PostService struct {
	posts    ports.PostRepository
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewPostService(posts ports.PostRepository, profiles ports.ProfileRepository, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, profiles: profiles, log: log}
}

func (s *PostService) Create(ctx context.Context, profileID, content string) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}
	if _, err := s.profiles.FindByID(ctx, profileID); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	now := time.Now().UTC()
	p := &domain.Post{
		AuthorID:  profileID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		s.log.Error().Err(err).Str("profile_id", profileID).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info().Str("post_id", p.ID).Str("profile_id", profileID).Msg("post created")
	return p, nil
}

// Update applies patch to the mutable fields only; author and creation time
// are never touched.
func (s *PostService) Update(ctx context.Context, postID string, patch domain.PostPatch) (*domain.Post, error) {
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	if patch.Content != nil {
		c := strings.TrimSpace(*patch.Content)
		if c == "" {
			return nil, domain.ErrEmptyContent
		}
		patch.Content = &c
	}

	p, err := s.posts.Update(ctx, postID, patch)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.log.Info().Str("post_id", p.ID).Msg("post updated")
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, postID string) (*domain.Post, error) {
	p, err := s.posts.Delete(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	s.log.Info().Str("post_id", p.ID).Str("profile_id", p.AuthorID).Msg("post deleted")
	return p, nil
}

func (s *PostService) ViewPosts(ctx context.Context, profileID string) ([]*domain.FeedItem, error) {
	author, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("view posts: %w", err)
	}
	posts, err := s.posts.ListByAuthor(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("view posts: %w", err)
	}

	summary := author.Summary()
	items := make([]*domain.FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, &domain.FeedItem{Post: *p, Author: summary})
	}
	return items, nil
}

func (s *PostService) LatestFollowed(ctx context.Context, profileID string) (*domain.FeedItem, error) {
	p, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("latest post: %w", err)
	}
	if len(p.Following) == 0 {
		return nil, nil
	}
	items, err := s.posts.Feed(ctx, p.Following, 1)
	if err != nil {
		return nil, fmt.Errorf("latest post: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func (s *PostService) SocialFeed(ctx context.Context, profileID string) ([]*domain.FeedItem, error) {
	p, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("social feed: %w", err)
	}
	if len(p.Following) == 0 {
		return []*domain.FeedItem{}, nil
	}
	items, err := s.posts.Feed(ctx, p.Following, 0)
	if err != nil {
		return nil, fmt.Errorf("social feed: %w", err)
	}
	return items, nil
}
