//go:build testutil
// +build testutil

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"
	tc "github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"instituto-backend/internal/platform/db"
)

type DBHandle struct {
	DB     *sql.DB
	cancel func()
	stop   func(context.Context) error
}

func (h *DBHandle) Close() {
	if h.DB != nil {
		_ = h.DB.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start spins up a disposable MySQL container and applies the embedded
// migrations. Callers own the handle and must Close it.
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	my, err := tcmysql.RunContainer(ctx,
		tc.WithImage("mysql:8.4"),
		tcmysql.WithDatabase("instituto"),
		tcmysql.WithUsername("instituto"),
		tcmysql.WithPassword("instituto"),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	uri, err := my.ConnectionString(ctx, "parseTime=true", "loc=UTC", "multiStatements=true")
	if err != nil {
		_ = my.Terminate(ctx)
		cancel()
		return nil, err
	}

	conn, err := sql.Open("mysql", uri)
	if err != nil {
		_ = my.Terminate(ctx)
		cancel()
		return nil, err
	}
	if err := waitReady(ctx, conn); err != nil {
		_ = my.Terminate(ctx)
		cancel()
		return nil, err
	}

	if err := db.Migrate(conn); err != nil {
		_ = my.Terminate(ctx)
		cancel()
		return nil, err
	}

	return &DBHandle{
		DB:     conn,
		cancel: cancel,
		stop:   my.Terminate,
	}, nil
}

func waitReady(ctx context.Context, conn *sql.DB) error {
	dead := time.Now().Add(30 * time.Second)
	for time.Now().Before(dead) {
		if err := conn.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}
	return errors.New("db not ready")
}
