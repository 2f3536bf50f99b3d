package ports

import "context"

// EdgeRepair identifies one follow edge to reconcile.
type EdgeRepair struct {
	FollowerID string
	FolloweeID string
}

// Key is stable for a given edge and is used for sharding.
func (e EdgeRepair) Key() string { return e.FollowerID + ">" + e.FolloweeID }

// RepairReport summarises a full sweep.
type RepairReport struct {
	ProfilesScanned int
	EdgesChecked    int
	EdgesRepaired   int
}

// GraphRepairer reconciles follow edges. The follower's Following list is
// authoritative.
type GraphRepairer interface {
	RepairEdge(ctx context.Context, edge EdgeRepair) (bool, error)
	Sweep(ctx context.Context) (RepairReport, error)
}

// RepairQueue accepts edges for asynchronous repair. Enqueue must not block.
type RepairQueue interface {
	Enqueue(edge EdgeRepair)
}
