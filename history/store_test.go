//go:build unit
// +build unit

package history

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-vat/jurisdiction"
	"github.com/vortex-fintech/go-vat/retry"
	"github.com/vortex-fintech/go-vat/timeutil"
)

var columns = []string{"id", "jurisdiction", "vat_number", "valid", "source", "name", "request_id", "checked_at"}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock, *timeutil.FrozenClock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := timeutil.NewFrozenClock(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	return New(db, WithClock(clock)), mock, clock
}

func TestStore_Record(t *testing.T) {
	s, mock, clock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertEntry)).
		WithArgs(sqlmock.AnyArg(), "PT", "980405319", true, "vies", "ACME", "req-1", clock.Now()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e, err := s.Record(context.Background(), Entry{
		Jurisdiction: jurisdiction.PT,
		VATNumber:    "980405319",
		Valid:        true,
		Source:       SourceVIES,
		Name:         "ACME",
		RequestID:    "req-1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, clock.Now(), e.CheckedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_KeepsGivenIDAndTime(t *testing.T) {
	s, mock, _ := newMock(t)
	id := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(insertEntry)).
		WithArgs(id, "DK", "13585628", false, "offline", "", "", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e, err := s.Record(context.Background(), Entry{
		ID: id, Jurisdiction: jurisdiction.DK, VATNumber: "13585628", Source: SourceOffline, CheckedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_Errors(t *testing.T) {
	s, mock, _ := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertEntry)).
		WillReturnError(&pgconn.PgError{Code: sqlStateUniqueViolation})
	_, err := s.Record(context.Background(), Entry{Jurisdiction: jurisdiction.PT})
	require.Error(t, err)
	assert.True(t, retry.IsPermanent(err))

	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(insertEntry)).WillReturnError(boom)
	_, err = s.Record(context.Background(), Entry{Jurisdiction: jurisdiction.PT})
	require.ErrorIs(t, err, boom)
	assert.False(t, retry.IsPermanent(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Recent(t *testing.T) {
	s, mock, _ := newMock(t)
	id := uuid.New()
	at := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectRecent)).
		WithArgs("PT", "980405319", DefaultLimit).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "PT", "980405319", true, "cache", "ACME", "req-2", at))

	got, err := s.Recent(context.Background(), jurisdiction.PT, "980405319", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Entry{
		ID:           id,
		Jurisdiction: jurisdiction.PT,
		VATNumber:    "980405319",
		Valid:        true,
		Source:       SourceCache,
		Name:         "ACME",
		RequestID:    "req-2",
		CheckedAt:    at,
	}, got[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Recent_ClampsLimitAndWrapsErrors(t *testing.T) {
	s, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectRecent)).
		WithArgs("DK", "1", MaxLimit).
		WillReturnError(errors.New("timeout"))

	_, err := s.Recent(context.Background(), jurisdiction.DK, "1", 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history: recent")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Migrate(t *testing.T) {
	s, mock, _ := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS vat_lookups").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
