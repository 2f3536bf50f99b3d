package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/socialnet/social-api/internal/core/domain"
	"github.com/socialnet/social-api/internal/core/ports"
)

// GraphRepairer reconciles follow edges, treating the follower's Following
// list as the source of truth.
type GraphRepairer struct {
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewGraphRepairer(profiles ports.ProfileRepository, log zerolog.Logger) *GraphRepairer {
	return &GraphRepairer{profiles: profiles, log: log}
}

// maxRepairPasses bounds how often RepairEdge re-reads an edge that keeps
// moving under concurrent follow/unfollow calls.
const maxRepairPasses = 3

// RepairEdge makes both sides of the edge agree and reports whether a write
// was needed. References to deleted profiles are pulled. A write on the
// followee side only counts as settled once a fresh read of the follower
// still agrees with it; otherwise the pass is repeated.
func (r *GraphRepairer) RepairEdge(ctx context.Context, edge ports.EdgeRepair) (bool, error) {
	var repaired bool
	for pass := 0; pass < maxRepairPasses; pass++ {
		changed, settled, err := r.repairPass(ctx, edge)
		if err != nil {
			return repaired, fmt.Errorf("repair edge: %w", err)
		}
		repaired = repaired || changed
		if settled {
			return repaired, nil
		}
	}

	r.log.Warn().
		Str("follower", edge.FollowerID).
		Str("followee", edge.FolloweeID).
		Int("passes", maxRepairPasses).
		Msg("follow edge did not settle")
	return repaired, fmt.Errorf("repair edge %s: %w", edge.Key(), domain.ErrEdgeUnsettled)
}

func (r *GraphRepairer) repairPass(ctx context.Context, edge ports.EdgeRepair) (changed, settled bool, err error) {
	follower, err := r.find(ctx, edge.FollowerID)
	if err != nil {
		return false, false, err
	}
	followee, err := r.find(ctx, edge.FolloweeID)
	if err != nil {
		return false, false, err
	}

	// Deleted profiles never come back, so pulling a dangling id settles it.
	switch {
	case follower == nil && followee == nil:
		return false, true, nil
	case follower == nil:
		changed, err := r.profiles.SetFollower(ctx, edge.FolloweeID, edge.FollowerID, false)
		return r.logged(changed, edge, "dangling follower"), err == nil, ignoreGone(err)
	case followee == nil:
		changed, err := r.profiles.SetFollowing(ctx, edge.FollowerID, edge.FolloweeID, false)
		return r.logged(changed, edge, "dangling followee"), err == nil, ignoreGone(err)
	}

	want := follower.IsFollowing(followee.ID)
	if followee.HasFollower(follower.ID) == want {
		return false, true, nil
	}
	changed, err = r.profiles.SetFollower(ctx, followee.ID, follower.ID, want)
	if err != nil {
		return false, false, ignoreGone(err)
	}
	r.logged(changed, edge, "asymmetric edge")

	latest, err := r.find(ctx, edge.FollowerID)
	if err != nil {
		return changed, false, err
	}
	return changed, latest != nil && latest.IsFollowing(followee.ID) == want, nil
}

// Sweep checks every edge found on any profile.
func (r *GraphRepairer) Sweep(ctx context.Context) (ports.RepairReport, error) {
	var report ports.RepairReport
	seen := make(map[ports.EdgeRepair]struct{})

	var edges []ports.EdgeRepair
	err := r.profiles.ForEach(ctx, func(p *domain.Profile) error {
		report.ProfilesScanned++
		for _, id := range p.Following {
			edges = appendEdge(edges, seen, ports.EdgeRepair{FollowerID: p.ID, FolloweeID: id})
		}
		for _, id := range p.Followers {
			edges = appendEdge(edges, seen, ports.EdgeRepair{FollowerID: id, FolloweeID: p.ID})
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("sweep: %w", err)
	}

	for _, e := range edges {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.EdgesChecked++
		changed, err := r.RepairEdge(ctx, e)
		if err != nil {
			r.log.Error().Err(err).Str("follower", e.FollowerID).Str("followee", e.FolloweeID).Msg("edge repair failed")
			continue
		}
		if changed {
			report.EdgesRepaired++
		}
	}

	r.log.Info().
		Int("profiles_scanned", report.ProfilesScanned).
		Int("edges_checked", report.EdgesChecked).
		Int("edges_repaired", report.EdgesRepaired).
		Msg("graph sweep finished")
	return report, nil
}

func (r *GraphRepairer) find(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := r.profiles.FindByID(ctx, id)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, nil
	}
	return p, err
}

func (r *GraphRepairer) logged(changed bool, edge ports.EdgeRepair, reason string) bool {
	if changed {
		r.log.Info().
			Str("follower", edge.FollowerID).
			Str("followee", edge.FolloweeID).
			Str("reason", reason).
			Msg("follow edge repaired")
	}
	return changed
}

// ignoreGone drops not-found errors: the profile vanished mid-repair and
// the next pass sees it as dangling.
func ignoreGone(err error) error {
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil
	}
	return err
}

func appendEdge(edges []ports.EdgeRepair, seen map[ports.EdgeRepair]struct{}, e ports.EdgeRepair) []ports.EdgeRepair {
	if _, ok := seen[e]; ok {
		return edges
	}
	seen[e] = struct{}{}
	return append(edges, e)
}
