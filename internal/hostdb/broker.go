// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package hostdb provides scoped access to the IBM i relational connection.
// Every operation acquires its own connection through the ODBC driver, runs,
// and releases it on all exit paths. There is no pooling or reuse across
// calls: invocations are independent and short-lived, trading handshake cost
// for isolation.
package hostdb

import (
	"context"
	"database/sql"

	// Registers the "odbc" driver for the IBM i Access ODBC driver.
	_ "github.com/alexbrainman/odbc"

	"ibridge/cli/internal/errors"
)

// Runner runs an operation against a live relational connection.
// It exists so catalog and deployment code can be tested against a
// fake backed by sqlmock.
type Runner interface {
	WithConnection(ctx context.Context, op func(db *sql.DB) error) error
}

// Broker opens one connection per call using a fixed ODBC connection string.
type Broker struct {
	connStr string
	// open is swappable for tests.
	open func() (*sql.DB, error)
}

// New creates a Broker for the given ODBC connection string.
func New(connStr string) *Broker {
	return &Broker{
		connStr: connStr,
		open: func() (*sql.DB, error) {
			return sql.Open("odbc", connStr)
		},
	}
}

// NewWithOpener creates a Broker whose connections come from open.
func NewWithOpener(open func() (*sql.DB, error)) *Broker {
	return &Broker{open: open}
}

// WithConnection acquires a connection, verifies it, runs op, and closes it.
// Connect failures surface as connection_error with transport context and
// are never retried.
func (b *Broker) WithConnection(ctx context.Context, op func(db *sql.DB) error) error {
	db, err := b.open()
	if err != nil {
		return errors.Wrap(errors.ConnectionFailed, "open host connection", err)
	}
	defer db.Close()

	// One physical connection per call; the operation must not outlive it.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(errors.ConnectionFailed, "connect to host", err)
	}
	return op(db)
}
