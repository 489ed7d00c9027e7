package usecase

import (
	"context"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domrepo "github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	domsvc "github.com/MatheusMartinho/gambit-sub001/internal/domain/service"
	svccache "github.com/MatheusMartinho/gambit-sub001/internal/service/cache"
	"github.com/MatheusMartinho/gambit-sub001/internal/services/peers"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

// PeerResolver is satisfied by *peers.Resolver.
type PeerResolver interface {
	Resolve(ctx context.Context, target *models.Snapshot) (models.PeerSet, error)
}

// PeersUseCase builds the sector comparison of a ticker.
type PeersUseCase struct {
	snapshots *Aggregator
	resolver  PeerResolver
	valuator  domsvc.PeerValuator
	policy    *svccache.Policy
	metrics   domrepo.Metrics
	log       *applogger.Logger
}

func NewPeersUseCase(snapshots *Aggregator, resolver PeerResolver, valuator domsvc.PeerValuator, policy *svccache.Policy, metrics domrepo.Metrics, log *applogger.Logger) *PeersUseCase {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &PeersUseCase{snapshots: snapshots, resolver: resolver, valuator: valuator, policy: policy, metrics: metrics, log: log}
}

// Peers returns the comparison table, peer averages and the peer-relative
// verdict for ticker. Reports built on stale or synthetic targets are not
// cached.
func (uc *PeersUseCase) Peers(ctx context.Context, ticker string) (*models.PeerReport, error) {
	t, err := models.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if r, ok, err := uc.policy.Peers(ctx, t); err == nil && ok {
		uc.metrics.RecordCacheOutcome(StateCacheHit)
		r.FromCache = true
		return r, nil
	}

	target, err := uc.snapshots.Snapshot(ctx, t)
	if err != nil {
		return nil, err
	}
	set, err := uc.resolver.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	snaps := peers.Snapshots(set)
	verdict := uc.valuator.ValueAgainstPeers(target, snaps)
	report := &models.PeerReport{
		Ticker:    t,
		Sector:    set.Sector,
		Peers:     make([]models.PeerComparison, 0, len(snaps)),
		Averages:  averages(snaps),
		Valuation: &verdict,
		Failed:    set.Failed,
	}
	for _, s := range snaps {
		report.Peers = append(report.Peers, models.ComparisonFromSnapshot(s))
	}

	if !target.Stale && target.DataQuality == models.DataQualityReal {
		stored := *report
		if err := uc.policy.StorePeers(ctx, &stored); err != nil {
			uc.log.Warn("peers cache store failed", applogger.String("ticker", t), applogger.Error(err))
		}
	}
	return report, nil
}

func averages(snaps []*models.Snapshot) models.PeerAverages {
	mean := func(pick func(*models.Snapshot) *float64) *float64 {
		sum, n := 0.0, 0
		for _, s := range snaps {
			if v := pick(s); v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			return nil
		}
		m := sum / float64(n)
		return &m
	}
	return models.PeerAverages{
		PriceEarnings: mean(func(s *models.Snapshot) *float64 { return s.Fundamentals.PriceEarnings }),
		PriceToBook:   mean(func(s *models.Snapshot) *float64 { return s.Fundamentals.PriceToBook }),
		EVToEBITDA:    mean(func(s *models.Snapshot) *float64 { return s.Fundamentals.EVToEBITDA }),
		DividendYield: mean(func(s *models.Snapshot) *float64 { return s.Fundamentals.DividendYield }),
		ROE:           mean(func(s *models.Snapshot) *float64 { return s.Fundamentals.ROE }),
	}
}
