package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atarasenko/contribution-service/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testNotifierConfig() config.Notifier {
	return config.Notifier{MaxRetries: 1, RetryBackoff: time.Millisecond, Timeout: time.Second}
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, smock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, smock
}
