package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectPingsDatabase(t *testing.T) {
	_, mock, err := sqlmock.NewWithDSN("connect_ok", sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()

	db, err := Connect(context.Background(), "sqlmock", "connect_ok")
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectGivesUpAfterRetries(t *testing.T) {
	pingAttempts, pingDelay = 2, time.Millisecond
	t.Cleanup(func() { pingAttempts, pingDelay = 5, 2*time.Second })

	_, mock, err := sqlmock.NewWithDSN("connect_down", sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	down := errors.New("connection refused")
	mock.ExpectPing().WillReturnError(down)
	mock.ExpectPing().WillReturnError(down)

	db, err := Connect(context.Background(), "sqlmock", "connect_down")
	assert.Nil(t, db)
	require.Error(t, err)
	assert.ErrorIs(t, err, down)
}
