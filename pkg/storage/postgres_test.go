package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db, ""), mock
}

func TestPostgresGet(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT value FROM "geogate_kv" WHERE key = $1`)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    string
		wantOK  bool
		wantErr bool
	}{
		{
			name: "existing key",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("settings").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"blockMessages":[]}`))
			},
			want:   `{"blockMessages":[]}`,
			wantOK: true,
		},
		{
			name: "missing key",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("settings").WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "driver failure",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("settings").WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newMockPostgres(t)
			tt.mock(mock)

			got, ok, err := p.Get(ctx, "settings")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOK, ok)
				assert.Equal(t, tt.want, string(got))
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresSetUpserts(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectExec(`INSERT INTO "geogate_kv" .* ON CONFLICT \(key\) DO UPDATE`).
		WithArgs("settings", `{"a":1}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, p.Set(context.Background(), "settings", []byte(`{"a":1}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetReportsDriverErrors(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectExec(`INSERT INTO "geogate_kv"`).
		WithArgs("settings", "x").
		WillReturnError(&pq.Error{Code: "53100"})

	err := p.Set(context.Background(), "settings", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk_full")

	var perr *pq.Error
	assert.True(t, errors.As(err, &perr))
}

func TestPostgresEnsureSchema(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "geogate_kv"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, p.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
