package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// ---------------------------------------------------------------------------
// In-memory profile repository
// ---------------------------------------------------------------------------

type stubProfileRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Profile
	nextID int

	// failFolloweeWrite makes AddFollow/RemoveFollow stop after the follower
	// side, the way a non-transactional store fails between two writes.
	failFolloweeWrite bool

	// beforeSetFollower runs ahead of every SetFollower write, outside the
	// lock, so tests can interleave another call with a repair.
	beforeSetFollower func()
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byID: make(map[string]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	c := *p
	c.Followers = slices.Clone(p.Followers)
	c.Following = slices.Clone(p.Following)
	return &c
}

// add inserts p directly, bypassing the service.
func (r *stubProfileRepo) add(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.byID[id] = &domain.Profile{
			ID:        id,
			PublicID:  "pub-" + id,
			Username:  id,
			UserID:    "user-" + id,
			Followers: []string{},
			Following: []string{},
		}
	}
}

func (r *stubProfileRepo) get(id string) *domain.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil
	}
	return cloneProfile(p)
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.UserID == p.UserID {
			return domain.ErrProfileExists
		}
	}
	r.nextID++
	p.ID = fmt.Sprintf("profile-%d", r.nextID)
	r.byID[p.ID] = cloneProfile(p)
	return nil
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) findBy(match func(*domain.Profile) bool) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if match(p) {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) FindByPublicID(_ context.Context, publicID string) (*domain.Profile, error) {
	return r.findBy(func(p *domain.Profile) bool { return p.PublicID == publicID })
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	return r.findBy(func(p *domain.Profile) bool { return p.UserID == userID })
}

func (r *stubProfileRepo) FindManyByIDs(_ context.Context, ids []string) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Profile
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, cloneProfile(p))
		}
	}
	return out, nil
}

func (r *stubProfileRepo) Update(_ context.Context, publicID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.PublicID != publicID {
			continue
		}
		if patch.Username != nil {
			p.Username = *patch.Username
		}
		if patch.Bio != nil {
			p.Bio = *patch.Bio
		}
		if patch.ProfilePicture != nil {
			p.ProfilePicture = *patch.ProfilePicture
		}
		return cloneProfile(p), nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) Delete(_ context.Context, publicID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.byID {
		if p.PublicID != publicID {
			continue
		}
		delete(r.byID, id)
		for _, other := range r.byID {
			other.Followers = slices.DeleteFunc(other.Followers, func(s string) bool { return s == id })
			other.Following = slices.DeleteFunc(other.Following, func(s string) bool { return s == id })
		}
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) AddFollow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follower, followee := r.byID[followerID], r.byID[followeeID]
	if follower == nil || followee == nil {
		return domain.ErrProfileNotFound
	}
	if slices.Contains(follower.Following, followeeID) {
		return domain.ErrAlreadyFollowing
	}
	follower.Following = append(follower.Following, followeeID)
	if r.failFolloweeWrite {
		return fmt.Errorf("add follower: %w", domain.ErrEdgeDiverged)
	}
	if !slices.Contains(followee.Followers, followerID) {
		followee.Followers = append(followee.Followers, followerID)
	}
	return nil
}

func (r *stubProfileRepo) RemoveFollow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follower, followee := r.byID[followerID], r.byID[followeeID]
	if follower == nil || followee == nil {
		return domain.ErrProfileNotFound
	}
	if !slices.Contains(follower.Following, followeeID) {
		return domain.ErrNotFollowing
	}
	follower.Following = slices.DeleteFunc(follower.Following, func(s string) bool { return s == followeeID })
	if r.failFolloweeWrite {
		return fmt.Errorf("remove follower: %w", domain.ErrEdgeDiverged)
	}
	followee.Followers = slices.DeleteFunc(followee.Followers, func(s string) bool { return s == followerID })
	return nil
}

func setMember(list []string, id string, present bool) ([]string, bool) {
	has := slices.Contains(list, id)
	switch {
	case present && !has:
		return append(list, id), true
	case !present && has:
		return slices.DeleteFunc(list, func(s string) bool { return s == id }), true
	}
	return list, false
}

func (r *stubProfileRepo) SetFollower(_ context.Context, followeeID, followerID string, present bool) (bool, error) {
	if r.beforeSetFollower != nil {
		r.beforeSetFollower()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[followeeID]
	if !ok {
		return false, domain.ErrProfileNotFound
	}
	var changed bool
	p.Followers, changed = setMember(p.Followers, followerID, present)
	return changed, nil
}

func (r *stubProfileRepo) SetFollowing(_ context.Context, followerID, followeeID string, present bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[followerID]
	if !ok {
		return false, domain.ErrProfileNotFound
	}
	var changed bool
	p.Following, changed = setMember(p.Following, followeeID, present)
	return changed, nil
}

func (r *stubProfileRepo) ForEach(_ context.Context, fn func(*domain.Profile) error) error {
	r.mu.Lock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)
	for _, id := range ids {
		r.mu.Lock()
		p, ok := r.byID[id]
		var c *domain.Profile
		if ok {
			c = cloneProfile(p)
		}
		r.mu.Unlock()
		if c == nil {
			continue
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory post repository
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	profiles *stubProfileRepo
	byID     map[string]*domain.Post
	nextID   int
}

func newStubPostRepo(profiles *stubProfileRepo) *stubPostRepo {
	return &stubPostRepo{profiles: profiles, byID: make(map[string]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.nextID++
	p.ID = fmt.Sprintf("post-%03d", r.nextID)
	c := *p
	r.byID[p.ID] = &c
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	c := *p
	return &c, nil
}

func (r *stubPostRepo) Update(_ context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	c := *p
	return &c, nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	delete(r.byID, id)
	return p, nil
}

func (r *stubPostRepo) DeleteByAuthor(_ context.Context, authorID string) (int64, error) {
	var n int64
	for id, p := range r.byID {
		if p.AuthorID == authorID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// newestFirst mirrors the repository sort: created_at desc, then id desc.
func newestFirst(posts []*domain.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

func (r *stubPostRepo) ListByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	var out []*domain.Post
	for _, p := range r.byID {
		if p.AuthorID == authorID {
			c := *p
			out = append(out, &c)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *stubPostRepo) Feed(_ context.Context, authorIDs []string, limit int) ([]*domain.FeedItem, error) {
	var posts []*domain.Post
	for _, p := range r.byID {
		if slices.Contains(authorIDs, p.AuthorID) {
			c := *p
			posts = append(posts, &c)
		}
	}
	newestFirst(posts)
	items := make([]*domain.FeedItem, 0, len(posts))
	for _, p := range posts {
		author := r.profiles.get(p.AuthorID)
		if author == nil {
			continue
		}
		items = append(items, &domain.FeedItem{Post: *p, Author: author.Summary()})
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Recording repair queue
// ---------------------------------------------------------------------------

type recordingQueue struct {
	edges []ports.EdgeRepair
}

func (q *recordingQueue) Enqueue(e ports.EdgeRepair) { q.edges = append(q.edges, e) }
