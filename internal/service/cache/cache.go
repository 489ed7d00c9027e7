// Package cache holds the snapshot cache policy: key layout, TTL per
// operation and ticker-wide invalidation across every typed store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	pcache "github.com/MatheusMartinho/gambit-sub001/pkg/cache"
)

const (
	OpSnapshot   = "snapshot"
	OpPeers      = "peers"
	OpHistorical = "historical"
)

// Invalidatable is the subset of pcache.Store needed to drop entries.
type Invalidatable interface {
	DeleteMatching(ctx context.Context, pattern string) error
	Clear(ctx context.Context) error
}

type TTLs struct {
	Snapshot   time.Duration
	Peers      time.Duration
	Historical time.Duration
}

// Policy fronts the typed stores. Reads return shallow copies so callers can
// tag them (fromCache, stale) without touching the stored value.
type Policy struct {
	snapshots  pcache.Store[*models.Snapshot]
	peers      pcache.Store[*models.PeerReport]
	historical pcache.Store[*models.HistoricalSeries]
	extra      []Invalidatable
	ttl        TTLs
}

// NewPolicy builds the policy. extra stores (raw provider caches) are only
// touched by invalidation.
func NewPolicy(
	snapshots pcache.Store[*models.Snapshot],
	peers pcache.Store[*models.PeerReport],
	historical pcache.Store[*models.HistoricalSeries],
	ttl TTLs,
	extra ...Invalidatable,
) *Policy {
	return &Policy{snapshots: snapshots, peers: peers, historical: historical, ttl: ttl, extra: extra}
}

func SnapshotKey(ticker string) string { return pcache.GenerateKey(OpSnapshot, ticker) }
func PeersKey(ticker string) string    { return pcache.GenerateKey(OpPeers, ticker) }

func HistoricalKey(ticker string, rng models.Range, interval models.Interval) string {
	return pcache.GenerateKey(fmt.Sprintf("%s-%s-%s", OpHistorical, rng, interval), ticker)
}

// Snapshot returns a fresh cached snapshot.
func (p *Policy) Snapshot(ctx context.Context, ticker string) (*models.Snapshot, bool, error) {
	s, ok, err := p.snapshots.Get(ctx, SnapshotKey(ticker))
	if err != nil || !ok || s == nil {
		return nil, false, err
	}
	cp := *s
	return &cp, true, nil
}

// StaleSnapshot returns the last stored snapshot regardless of expiry.
func (p *Policy) StaleSnapshot(ctx context.Context, ticker string) (*models.Snapshot, bool, error) {
	s, ok, err := p.snapshots.GetStale(ctx, SnapshotKey(ticker))
	if err != nil || !ok || s == nil {
		return nil, false, err
	}
	cp := *s
	return &cp, true, nil
}

func (p *Policy) StoreSnapshot(ctx context.Context, s *models.Snapshot) error {
	return p.snapshots.Set(ctx, SnapshotKey(s.Ticker), s, p.ttl.Snapshot)
}

func (p *Policy) Peers(ctx context.Context, ticker string) (*models.PeerReport, bool, error) {
	r, ok, err := p.peers.Get(ctx, PeersKey(ticker))
	if err != nil || !ok || r == nil {
		return nil, false, err
	}
	cp := *r
	return &cp, true, nil
}

func (p *Policy) StorePeers(ctx context.Context, r *models.PeerReport) error {
	return p.peers.Set(ctx, PeersKey(r.Ticker), r, p.ttl.Peers)
}

func (p *Policy) Historical(ctx context.Context, ticker string, rng models.Range, interval models.Interval) (*models.HistoricalSeries, bool, error) {
	h, ok, err := p.historical.Get(ctx, HistoricalKey(ticker, rng, interval))
	if err != nil || !ok || h == nil {
		return nil, false, err
	}
	cp := *h
	return &cp, true, nil
}

func (p *Policy) StoreHistorical(ctx context.Context, h *models.HistoricalSeries) error {
	return p.historical.Set(ctx, HistoricalKey(h.Ticker, h.Range, h.Interval), h, p.ttl.Historical)
}

// InvalidateTicker drops every entry cached for ticker, in every store.
func (p *Policy) InvalidateTicker(ctx context.Context, ticker string) error {
	pattern := pcache.SuffixPattern(ticker)
	var errs []error
	for _, s := range p.stores() {
		if err := s.DeleteMatching(ctx, pattern); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear empties every store.
func (p *Policy) Clear(ctx context.Context) error {
	var errs []error
	for _, s := range p.stores() {
		if err := s.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Policy) stores() []Invalidatable {
	return append([]Invalidatable{p.snapshots, p.peers, p.historical}, p.extra...)
}
