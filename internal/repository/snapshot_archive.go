package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	domrepo "github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// CHSnapshotArchive appends fresh snapshots to a ClickHouse MergeTree table.
// It is write-only; nothing on the serving path reads it back.
type CHSnapshotArchive struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSnapshotArchive(db *sql.DB, table string, l *applogger.Logger) (*CHSnapshotArchive, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid archive table name %q", table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHSnapshotArchive{db: db, table: table, l: l}, nil
}

func (a *CHSnapshotArchive) Init(ctx context.Context) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS %s (
            fetched_at     DateTime64(3, 'UTC'),
            ticker         LowCardinality(String),
            price          Nullable(Float64),
            health_total   Nullable(Int32),
            grade          String,
            verdict        String,
            upside_percent Nullable(Float64),
            data_quality   LowCardinality(String),
            sources        String,
            payload        String
        ) ENGINE = MergeTree
        ORDER BY (ticker, fetched_at)
    `
	if _, err := a.db.ExecContext(ctx, fmt.Sprintf(ddl, a.table)); err != nil {
		return fmt.Errorf("init archive: %w", err)
	}
	return nil
}

func (a *CHSnapshotArchive) Append(ctx context.Context, s *models.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	var (
		health, upside any
		grade, verdict string
	)
	if s.Health != nil {
		health = int32(s.Health.Total)
		grade = string(s.Health.Grade)
	}
	if s.Valuation != nil {
		upside = s.Valuation.UpsidePercent
		verdict = string(s.Valuation.Verdict)
	}
	var price any
	if s.Quote.Price != nil {
		price = *s.Quote.Price
	}
	sources := make([]string, len(s.Sources))
	for i, src := range s.Sources {
		sources[i] = string(src)
	}

	q := fmt.Sprintf(`INSERT INTO %s (fetched_at, ticker, price, health_total, grade, verdict, upside_percent, data_quality, sources, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, a.table)
	_, err = a.db.ExecContext(ctx, q,
		s.FetchedAt.UTC(),
		s.Ticker,
		price,
		health,
		grade,
		verdict,
		upside,
		string(s.DataQuality),
		strings.Join(sources, ","),
		string(payload),
	)
	if err != nil {
		a.l.Error("clickhouse archive insert error",
			applogger.String("table", a.table),
			applogger.String("ticker", s.Ticker),
			applogger.Error(err),
		)
		return fmt.Errorf("archive snapshot: %w", err)
	}
	return nil
}

func (a *CHSnapshotArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *CHSnapshotArchive) Close() error {
	return a.db.Close()
}

var _ domrepo.SnapshotArchive = (*CHSnapshotArchive)(nil)
