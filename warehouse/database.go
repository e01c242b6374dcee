// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package warehouse

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Warehouse wraps the database connection for a market data warehouse
// along with its identifying metadata.
type Warehouse struct {
	DBUrl string
	Name  string
	Owner string

	Pool *pgxpool.Pool
}

// Connect to the database configured for the warehouse
func (myWarehouse *Warehouse) Connect(ctx context.Context) error {
	if myWarehouse.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(context.Background(), myWarehouse.DBUrl)
	if err != nil {
		return err
	}
	myWarehouse.Pool = pool

	return nil
}

// Close the database pool
func (myWarehouse *Warehouse) Close() {
	myWarehouse.Pool.Close()
}

// NewFromDB creates a new warehouse object with values from the database
func NewFromDB(ctx context.Context, dbURL string) (*Warehouse, error) {
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	myWarehouse := Warehouse{
		DBUrl: dbURL,
		Pool:  pool,
	}

	if err := conn.QueryRow(ctx, "SELECT name, owner FROM warehouse").Scan(&myWarehouse.Name, &myWarehouse.Owner); err != nil {
		return nil, err
	}

	return &myWarehouse, nil
}

// SaveDB creates a new record in the warehouse table for this warehouse
func (myWarehouse *Warehouse) SaveDB(ctx context.Context) error {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `INSERT INTO warehouse ("name", "owner") VALUES ($1, $2)`, myWarehouse.Name, myWarehouse.Owner)
	return err
}

// NumSymbols returns the count of active symbols in the registry
func (myWarehouse *Warehouse) NumSymbols(ctx context.Context) (int, error) {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM symbols WHERE active='t'").Scan(&count)
	return count, err
}

// NumWatermarks returns the total count of watermark rows being tracked
func (myWarehouse *Warehouse) NumWatermarks(ctx context.Context) (int, error) {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM watermarks").Scan(&count)
	return count, err
}

// PoisonedSymbol is a watermark row whose failure counter has reached the
// configured cap, excluded from automatic retry until an operator resets it.
type PoisonedSymbol struct {
	TableName           string `db:"table_name"`
	Ticker              string `db:"ticker"`
	ConsecutiveFailures int    `db:"consecutive_failures"`
}

// PoisonedSymbols lists watermark rows at or past the failure cap
func (myWarehouse *Warehouse) PoisonedSymbols(ctx context.Context, maxFailures int) ([]*PoisonedSymbol, error) {
	var poisoned []*PoisonedSymbol
	err := pgxscan.Select(ctx, myWarehouse.Pool, &poisoned,
		`SELECT w.table_name, s.ticker, w.consecutive_failures
FROM watermarks w
JOIN symbols s ON s.id = w.symbol_id
WHERE w.consecutive_failures >= $1
ORDER BY w.table_name, s.ticker`, maxFailures)
	return poisoned, err
}

// TotalRecords returns the combined number of quote and statement records
func (myWarehouse *Warehouse) TotalRecords(ctx context.Context) (int, error) {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx,
		"SELECT (SELECT count(*) FROM eod) + (SELECT count(*) FROM financial_statements)").Scan(&count)
	return count, err
}

// LastUpdated returns the date that any watermark last recorded a success
func (myWarehouse *Warehouse) LastUpdated(ctx context.Context) (time.Time, error) {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Release()

	var lastUpdated time.Time
	err = conn.QueryRow(ctx,
		"SELECT coalesce(max(last_successful_run), '0001-01-01'::timestamp) FROM watermarks").Scan(&lastUpdated)
	if err != nil {
		return time.Time{}, err
	}

	return lastUpdated, nil
}
