package handler

import (
	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

// --- Request → Service input ---

func toProfileInput(req createProfileRequest) ports.CreateProfileInput {
	return ports.CreateProfileInput{
		Username:       req.Username,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	}
}

func toProfilePatch(req updateProfileRequest) domain.ProfilePatch {
	return domain.ProfilePatch{
		Username:       req.Username,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toProfileResponse(p *domain.Profile) profileResponse {
	return profileResponse{
		ID:             p.ID,
		PublicID:       p.PublicID,
		Username:       p.Username,
		Bio:            p.Bio,
		ProfilePicture: p.ProfilePicture,
		Owner:          p.UserID,
		Followers:      nonNil(p.Followers),
		Following:      nonNil(p.Following),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProfileViewResponse(v *domain.ProfileView) profileViewResponse {
	return profileViewResponse{
		profileResponse: toProfileResponse(v.Profile),
		User:            ownerResponse{Name: v.Owner.Name, Email: v.Owner.Email},
	}
}

func toSummaryResponse(s domain.ProfileSummary) profileSummaryResponse {
	return profileSummaryResponse{
		ID:             s.ID,
		PublicID:       s.PublicID,
		Username:       s.Username,
		Bio:            s.Bio,
		ProfilePicture: s.ProfilePicture,
	}
}

func toSummaryResponses(in []domain.ProfileSummary) []profileSummaryResponse {
	out := make([]profileSummaryResponse, 0, len(in))
	for _, s := range in {
		out = append(out, toSummaryResponse(s))
	}
	return out
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toFeedItemResponse(item *domain.FeedItem) feedItemResponse {
	return feedItemResponse{
		postResponse: toPostResponse(&item.Post),
		Author:       toSummaryResponse(item.Author),
	}
}

func toFeedResponses(items []*domain.FeedItem) []feedItemResponse {
	out := make([]feedItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toFeedItemResponse(item))
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
