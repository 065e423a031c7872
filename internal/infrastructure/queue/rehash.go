package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/guardpost/access-api/internal/api/metrics"
	"github.com/guardpost/access-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// RehashDispatcher upgrades legacy password hashes off the login path. It
// routes upgrade requests to a fixed set of workers using consistent hashing
// on the username, so concurrent logins by the same user cannot interleave
// writes to the same credential.
type RehashDispatcher struct {
	workers  []chan ports.CredentialUpgrade
	upgrader ports.CredentialUpgrader
	log      zerolog.Logger
}

// NewRehashDispatcher creates a RehashDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewRehashDispatcher(numWorkers int, upgrader ports.CredentialUpgrader, log zerolog.Logger) *RehashDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &RehashDispatcher{
		workers:  make([]chan ports.CredentialUpgrade, numWorkers),
		upgrader: upgrader,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CredentialUpgrade, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *RehashDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a request to the worker responsible for its username. When
// that worker's buffer is full the request is dropped: a rehash is an
// opportunistic upgrade and the next successful login re-submits it.
func (d *RehashDispatcher) Enqueue(req ports.CredentialUpgrade) {
	select {
	case d.workers[d.shardIndex(req.Username)] <- req:
	default:
		d.log.Warn().Str("username", req.Username).Msg("rehash queue full, dropping upgrade")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *RehashDispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *RehashDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CredentialUpgrade) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-ch:
			if !ok {
				return
			}
			if err := d.upgrader.Upgrade(ctx, req); err != nil {
				metrics.PasswordRehashTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("username", req.Username).
					Int("worker_id", id).
					Msg("credential upgrade failed")
				continue
			}
			metrics.PasswordRehashTotal.WithLabelValues("ok").Inc()
		}
	}
}
