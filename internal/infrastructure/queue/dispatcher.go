package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/socialnet/social-api/internal/api/metrics"
	"github.com/socialnet/social-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes edge repairs to a fixed set of workers using consistent
// hashing on the edge, so repairs of the same edge never run concurrently.
type Dispatcher struct {
	workers  []chan ports.EdgeRepair
	repairer ports.GraphRepairer
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repairer ports.GraphRepairer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.EdgeRepair, numWorkers),
		repairer: repairer,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EdgeRepair, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Enqueue hands an edge to its worker without blocking. When the worker's
// buffer is full the job is dropped; the periodic sweep will find the edge.
func (d *Dispatcher) Enqueue(edge ports.EdgeRepair) {
	i := d.shardIndex(edge.Key())
	select {
	case d.workers[i] <- edge:
		metrics.RepairQueueDepth.WithLabelValues(strconv.Itoa(i)).Inc()
	default:
		metrics.GraphRepairsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("follower", edge.FollowerID).
			Str("followee", edge.FolloweeID).
			Int("worker_id", i).
			Msg("repair queue full, dropping job")
	}
}

// shardIndex maps an edge key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EdgeRepair) {
	defer d.wg.Done()
	depth := metrics.RepairQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case edge := <-ch:
			depth.Dec()
			changed, err := d.repairer.RepairEdge(ctx, edge)
			switch {
			case err != nil:
				metrics.GraphRepairsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("follower", edge.FollowerID).
					Str("followee", edge.FolloweeID).
					Int("worker_id", id).
					Msg("edge repair failed")
			case changed:
				metrics.GraphRepairsTotal.WithLabelValues("repaired").Inc()
			default:
				metrics.GraphRepairsTotal.WithLabelValues("clean").Inc()
			}
		}
	}
}
