package ratestore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewPostgresStore(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS rate_configs`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	t.Parallel()

	data, err := encodeConfig(sampleConfig("acme"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"config_json"}).AddRow(data)
				mock.ExpectQuery(`SELECT config_json FROM rate_configs WHERE product_id = \$1`).
					WithArgs("acme").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT config_json FROM rate_configs WHERE product_id = \$1`).
					WithArgs("acme").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT config_json FROM rate_configs`).
					WithArgs("acme").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, mock := newMockStore(t)
			tt.setupMock(mock)

			cfg, err := store.Get(context.Background(), "acme")

			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, "acme", cfg.ProductID)
				assert.True(t, cfg.Initialized())
				r, _ := cfg.MinRates["B_VN"].At(0)
				assert.True(t, r.Equal(decimal.RequireFromString("0.0014")))
			case errors.Is(tt.wantErr, ErrNotFound):
				assert.ErrorIs(t, err, ErrNotFound)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
				assert.NotErrorIs(t, err, ErrNotFound)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_Put(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO rate_configs`).
		WithArgs("acme", "Product acme", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Put(context.Background(), sampleConfig("acme")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Put_InvalidConfigSkipsDatabase(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	assert.Error(t, store.Put(context.Background(), sampleConfig("")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM rate_configs WHERE product_id = \$1`).
		WithArgs("acme").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM rate_configs WHERE product_id = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.Delete(context.Background(), "acme"))
	assert.ErrorIs(t, store.Delete(context.Background(), "gone"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"product_id", "description", "updated_at"}).
		AddRow("acme", "Acme", now).
		AddRow("beta", "", now.Add(time.Hour))

	mock.ExpectQuery(`SELECT product_id, description, updated_at FROM rate_configs ORDER BY product_id`).
		WillReturnRows(rows)

	list, err := store.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ProductInfo{ProductID: "acme", Description: "Acme", UpdatedAt: now}, list[0])
	assert.Equal(t, "beta", list[1].ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
