package domain

import (
	"slices"
	"time"
)

// Profile is the public face of a user and the node of the follow graph.
// Followers and Following hold profile IDs and must stay symmetric: if A
// follows B then B.Followers contains A.ID.
type Profile struct {
	ID             string
	PublicID       string
	Username       string
	Bio            string
	ProfilePicture string
	UserID         string
	Followers      []string
	Following      []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsFollowing reports whether p follows the profile with the given ID.
func (p *Profile) IsFollowing(profileID string) bool {
	return slices.Contains(p.Following, profileID)
}

// HasFollower reports whether the profile with the given ID follows p.
func (p *Profile) HasFollower(profileID string) bool {
	return slices.Contains(p.Followers, profileID)
}

// Summary returns the public fields of p.
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		ID:             p.ID,
		PublicID:       p.PublicID,
		Username:       p.Username,
		Bio:            p.Bio,
		ProfilePicture: p.ProfilePicture,
	}
}

// ProfileSummary is the dereferenced form of a follow edge and the author
// annotation on feed items.
type ProfileSummary struct {
	ID             string
	PublicID       string
	Username       string
	Bio            string
	ProfilePicture string
}

// ProfileOwner is the subset of the owning user exposed on a profile view.
type ProfileOwner struct {
	Name  string
	Email string
}

// ProfileView is a profile together with its owner's public details.
type ProfileView struct {
	Profile *Profile
	Owner   ProfileOwner
}

// ProfilePatch carries the mutable profile fields. Nil means "leave as is".
type ProfilePatch struct {
	Username       *string
	Bio            *string
	ProfilePicture *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Username == nil && p.Bio == nil && p.ProfilePicture == nil
}
