package peers

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// ErrSyntheticPeer marks a peer whose snapshot came from fixtures.
var ErrSyntheticPeer = errors.New("synthetic data")

// SnapshotSource produces the merged snapshot of one ticker.
type SnapshotSource interface {
	Snapshot(ctx context.Context, ticker string) (*models.Snapshot, error)
}

type Config struct {
	MaxPeers      int
	Concurrency   int
	DefaultSector string
}

// Resolver maps a ticker to its sector peers and fetches each of them
// independently.
type Resolver struct {
	source SnapshotSource
	cfg    Config
	log    *logger.Logger
}

func NewResolver(source SnapshotSource, cfg Config, log *logger.Logger) *Resolver {
	if cfg.MaxPeers <= 0 {
		cfg.MaxPeers = 5
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.DefaultSector == "" {
		cfg.DefaultSector = models.DefaultSector
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{source: source, cfg: cfg, log: log.With(logger.String("component", "peers"))}
}

// SectorOf returns the canonical sector of a snapshot.
func (r *Resolver) SectorOf(target *models.Snapshot) string {
	s := models.NormalizeSector(target.Company.Sector, target.Company.Industry)
	if s == models.DefaultSector {
		return r.cfg.DefaultSector
	}
	return s
}

// Resolve fetches the peers of target. A failing peer is recorded in Failed
// and never fails the set; synthetic snapshots are left out. Peers keep the
// table order.
func (r *Resolver) Resolve(ctx context.Context, target *models.Snapshot) (models.PeerSet, error) {
	sector := r.SectorOf(target)
	tickers := Candidates(sector, target.Ticker, r.cfg.MaxPeers)

	results := make([]*models.Snapshot, len(tickers))
	var (
		mu     sync.Mutex
		failed = map[string]string{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, t := range tickers {
		g.Go(func() error {
			s, err := r.source.Snapshot(gctx, t)
			if err == nil && s.DataQuality == models.DataQualityMock {
				err = ErrSyntheticPeer
			}
			if err != nil {
				r.log.Warn("peer fetch failed",
					logger.String("ticker", target.Ticker),
					logger.String("peer", t),
					logger.String("kind", models.ErrorKind(err)),
					logger.Error(err))
				mu.Lock()
				failed[t] = err.Error()
				mu.Unlock()
				return nil
			}
			results[i] = s
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return models.PeerSet{}, err
	}

	set := models.PeerSet{Sector: sector, Peers: make([]models.PeerEntry, 0, len(tickers))}
	for i, s := range results {
		if s != nil {
			set.Peers = append(set.Peers, models.PeerEntry{Ticker: tickers[i], Snapshot: s})
		}
	}
	if len(failed) > 0 {
		set.Failed = failed
	}
	return set, nil
}

// Snapshots returns the peer snapshots in order.
func Snapshots(set models.PeerSet) []*models.Snapshot {
	out := make([]*models.Snapshot, 0, len(set.Peers))
	for _, p := range set.Peers {
		out = append(out, p.Snapshot)
	}
	return out
}
