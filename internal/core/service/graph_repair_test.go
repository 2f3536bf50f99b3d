package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/rs/zerolog"

	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

func TestGraphRepairer_RepairEdge(t *testing.T) {
	repo := newStubProfileRepo()
	repo.add("a", "b")
	r := NewGraphRepairer(repo, zerolog.Nop())
	ctx := context.Background()

	repo.byID["a"].Following = []string{"b"}

	changed, err := r.RepairEdge(ctx, ports.EdgeRepair{FollowerID: "a", FolloweeID: "b"})
	if err != nil {
		t.Fatalf("RepairEdge returned error: %v", err)
	}
	if !changed || !repo.get("b").HasFollower("a") {
		t.Fatalf("expected b.followers to gain a")
	}

	changed, err = r.RepairEdge(ctx, ports.EdgeRepair{FollowerID: "a", FolloweeID: "b"})
	if err != nil || changed {
		t.Fatalf("expected no-op on symmetric edge, got changed=%v err=%v", changed, err)
	}

	// Follower side is authoritative: a stray follower entry is removed.
	repo.byID["a"].Following = []string{}
	changed, err = r.RepairEdge(ctx, ports.EdgeRepair{FollowerID: "a", FolloweeID: "b"})
	if err != nil || !changed {
		t.Fatalf("expected stray follower removed, got changed=%v err=%v", changed, err)
	}
	if repo.get("b").HasFollower("a") {
		t.Fatalf("b.followers still lists a")
	}
}

func TestGraphRepairer_DanglingReferences(t *testing.T) {
	repo := newStubProfileRepo()
	repo.add("a", "b")
	r := NewGraphRepairer(repo, zerolog.Nop())
	ctx := context.Background()

	repo.byID["a"].Following = []string{"ghost"}
	repo.byID["b"].Followers = []string{"ghost"}

	if _, err := r.RepairEdge(ctx, ports.EdgeRepair{FollowerID: "a", FolloweeID: "ghost"}); err != nil {
		t.Fatalf("RepairEdge returned error: %v", err)
	}
	if _, err := r.RepairEdge(ctx, ports.EdgeRepair{FollowerID: "ghost", FolloweeID: "b"}); err != nil {
		t.Fatalf("RepairEdge returned error: %v", err)
	}
	if len(repo.get("a").Following) != 0 || len(repo.get("b").Followers) != 0 {
		t.Fatalf("dangling ids not pulled: a=%v b=%v", repo.get("a").Following, repo.get("b").Followers)
	}
}

func TestGraphRepairer_Sweep(t *testing.T) {
	repo := newStubProfileRepo()
	repo.add("a", "b", "c")
	r := NewGraphRepairer(repo, zerolog.Nop())

	repo.byID["a"].Following = []string{"b"}
	repo.byID["c"].Following = []string{"a"}
	repo.byID["a"].Followers = []string{"c"}

	report, err := r.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if report.ProfilesScanned != 3 {
		t.Fatalf("expected 3 profiles scanned, got %d", report.ProfilesScanned)
	}
	if report.EdgesChecked != 2 {
		t.Fatalf("expected 2 distinct edges checked, got %d", report.EdgesChecked)
	}
	if report.EdgesRepaired != 1 {
		t.Fatalf("expected 1 edge repaired, got %d", report.EdgesRepaired)
	}
	if !repo.get("b").HasFollower("a") {
		t.Fatalf("sweep did not fix a->b")
	}
}

func TestGraphRepairer_RepairEdge_UnfollowDuringRepair(t *testing.T) {
	repo := newStubProfileRepo()
	repo.add("a", "b")
	r := NewGraphRepairer(repo, zerolog.Nop())
	ctx := context.Background()

	// follow(a, b) stopped after the follower side.
	repo.byID["a"].Following = []string{"b"}

	unfollowed := false
	repo.beforeSetFollower = func() {
		if unfollowed {
			return
		}
		unfollowed = true
		if err := repo.RemoveFollow(ctx, "a", "b"); err != nil {
			t.Errorf("RemoveFollow returned error: %v", err)
		}
	}

	changed, err := r.RepairEdge(ctx, ports.EdgeRepair{FollowerID: "a", FolloweeID: "b"})
	if err != nil {
		t.Fatalf("RepairEdge returned error: %v", err)
	}
	if !changed {
		t.Fatalf("expected the repair to report a write")
	}
	if a, b := repo.get("a"), repo.get("b"); a.IsFollowing("b") || b.HasFollower("a") {
		t.Fatalf("asymmetric edge after repair: a.following=%v b.followers=%v", a.Following, b.Followers)
	}
}

func TestGraphRepairer_RepairEdge_GivesUpOnFlappingEdge(t *testing.T) {
	repo := newStubProfileRepo()
	repo.add("a", "b")
	r := NewGraphRepairer(repo, zerolog.Nop())
	ctx := context.Background()

	repo.byID["a"].Following = []string{"b"}

	// Every write is immediately contradicted by a concurrent toggle.
	repo.beforeSetFollower = func() {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		a := repo.byID["a"]
		if slices.Contains(a.Following, "b") {
			a.Following = []string{}
		} else {
			a.Following = []string{"b"}
		}
	}

	_, err := r.RepairEdge(ctx, ports.EdgeRepair{FollowerID: "a", FolloweeID: "b"})
	if !errors.Is(err, domain.ErrEdgeUnsettled) {
		t.Fatalf("expected ErrEdgeUnsettled, got %v", err)
	}
}
