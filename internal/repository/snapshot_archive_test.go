package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockArchive(t *testing.T) (*CHSnapshotArchive, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a, err := NewCHSnapshotArchive(db, "fundamentals.snapshots", nil)
	require.NoError(t, err)
	return a, mock
}

func archivedSnapshot() *models.Snapshot {
	price := 33.73
	s := &models.Snapshot{
		Ticker:      "PETR4",
		Sources:     []models.ProviderID{models.ProviderYahoo, models.ProviderBrapi},
		DataQuality: models.DataQualityReal,
		FetchedAt:   time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC),
		Health:      &models.HealthScore{Total: 72, Grade: models.GradeBPlus},
		Valuation:   &models.ValuationVerdict{Verdict: models.VerdictBuy, UpsidePercent: 18.4},
	}
	s.Quote.Price = &price
	return s
}

func TestArchiveInit(t *testing.T) {
	a, mock := newMockArchive(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS fundamentals.snapshots")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, a.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveAppend(t *testing.T) {
	a, mock := newMockArchive(t)
	s := archivedSnapshot()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fundamentals.snapshots")).
		WithArgs(s.FetchedAt, "PETR4", 33.73, int64(72), "B+", "COMPRA", 18.4, "real", "yahoo,brapi", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, a.Append(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveAppendNullableColumns(t *testing.T) {
	a, mock := newMockArchive(t)
	s := &models.Snapshot{Ticker: "VALE3", DataQuality: models.DataQualityReal}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fundamentals.snapshots")).
		WithArgs(sqlmock.AnyArg(), "VALE3", nil, nil, "", "", nil, "real", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, a.Append(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveAppendError(t *testing.T) {
	a, mock := newMockArchive(t)
	mock.ExpectExec("INSERT INTO").WillReturnError(errors.New("table is read only"))

	err := a.Append(context.Background(), archivedSnapshot())
	assert.ErrorContains(t, err, "archive snapshot")
}

func TestArchiveRejectsUnsafeTableName(t *testing.T) {
	_, err := NewCHSnapshotArchive(nil, "snapshots; DROP TABLE x", nil)
	assert.Error(t, err)
}
