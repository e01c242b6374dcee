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
package watermark

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/market-vault/mvdata/data"
	"github.com/rs/zerolog/log"
)

// DB is the slice of a pgx pool the manager needs. *pgxpool.Pool
// satisfies it.
type DB interface {
	pgxscan.Querier
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Manager answers which symbols need processing for a dataset and records
// the outcome of each extraction attempt. All state lives in the backing
// store; the manager itself holds no mutable state and is safe for use
// from multiple extractor processes concurrently (each watermark row is
// independently upserted).
type Manager struct {
	DB DB

	// Screener filters candidate lists before the limit is applied.
	// Nil means no screening (NopScreener).
	Screener Screener

	// Now is the clock used for staleness and quarter arithmetic;
	// defaults to time.Now.
	Now func() time.Time
}

// NewManager creates a watermark manager backed by the given pool.
func NewManager(db DB) *Manager {
	return &Manager{
		DB:       db,
		Screener: NopScreener{},
		Now:      time.Now,
	}
}

func (manager *Manager) now() time.Time {
	if manager.Now != nil {
		return manager.Now()
	}

	return time.Now()
}

func (manager *Manager) screener() Screener {
	if manager.Screener != nil {
		return manager.Screener
	}

	return NopScreener{}
}

// GetWatermark looks up the watermark for a (table, symbol) pair. A pair
// that has never been processed returns (nil, nil); that is not an error.
func (manager *Manager) GetWatermark(ctx context.Context, tableName string, symbolID int64) (*Watermark, error) {
	watermark := &Watermark{}
	err := pgxscan.Get(ctx, manager.DB, watermark,
		`SELECT table_name, symbol_id, last_fiscal_date, last_successful_run,
consecutive_failures, created_at, updated_at
FROM watermarks WHERE table_name=$1 AND symbol_id=$2`, tableName, symbolID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}

		return nil, err
	}

	return watermark, nil
}

// UpdateWatermark records the outcome of an extraction attempt as a single
// atomic upsert. On success the failure counter resets, the run timestamp
// advances, and the fiscal date becomes the greater of the existing and
// supplied values -- a fiscal date never moves backward, even if a
// reprocessing run supplies an earlier corrected date. On failure only the
// counter is incremented; prior successful state is preserved.
func (manager *Manager) UpdateWatermark(ctx context.Context, tableName string, symbolID int64, fiscalDate *time.Time, success bool) error {
	var err error

	if success {
		_, err = manager.DB.Exec(ctx, `INSERT INTO watermarks (
	"table_name",
	"symbol_id",
	"last_fiscal_date",
	"last_successful_run",
	"consecutive_failures"
) VALUES (
	$1, $2, $3, now(), 0
) ON CONFLICT ON CONSTRAINT watermarks_pkey DO UPDATE SET
	last_fiscal_date = GREATEST(watermarks.last_fiscal_date, EXCLUDED.last_fiscal_date),
	last_successful_run = EXCLUDED.last_successful_run,
	consecutive_failures = 0,
	updated_at = now()`, tableName, symbolID, fiscalDate)
	} else {
		_, err = manager.DB.Exec(ctx, `INSERT INTO watermarks (
	"table_name",
	"symbol_id",
	"consecutive_failures"
) VALUES (
	$1, $2, 1
) ON CONFLICT ON CONSTRAINT watermarks_pkey DO UPDATE SET
	consecutive_failures = watermarks.consecutive_failures + 1,
	updated_at = now()`, tableName, symbolID)
	}

	if err != nil {
		log.Error().Err(err).Str("TableName", tableName).Int64("SymbolID", symbolID).
			Bool("Success", success).Msg("save watermark to database failed")
		return err
	}

	return nil
}

// NeedsProcessing reports whether the pair is due for an extraction run:
// true when no watermark exists, or when the failure cap has not been hit
// and the last success is older than the staleness threshold. A pair in
// the poison state returns false until ResetFailures clears it.
func (manager *Manager) NeedsProcessing(ctx context.Context, tableName string, symbolID int64, stalenessHours, maxFailures int) (bool, error) {
	watermark, err := manager.GetWatermark(ctx, tableName, symbolID)
	if err != nil {
		return false, err
	}

	if watermark == nil {
		return true, nil
	}

	return watermark.ShouldProcess(manager.now(), stalenessHours, maxFailures), nil
}

// ResetFailures clears the consecutive failure counter for a pair. This is
// the explicit administrative action that releases a symbol from the
// poison state; it is never done automatically.
func (manager *Manager) ResetFailures(ctx context.Context, tableName string, symbolID int64) error {
	tag, err := manager.DB.Exec(ctx,
		`UPDATE watermarks SET consecutive_failures=0, updated_at=now() WHERE table_name=$1 AND symbol_id=$2`,
		tableName, symbolID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		log.Warn().Str("TableName", tableName).Int64("SymbolID", symbolID).
			Msg("reset requested for a pair with no watermark")
	}

	return nil
}

// SymbolsNeedingProcessing returns the ordered work queue for a dataset:
// active symbols of the requested asset classes whose watermark state says
// a run is due. Candidates are selected, then screened, then truncated --
// in that order. Applying the limit before screening could starve high
// priority symbols, so the limit always runs last.
func (manager *Manager) SymbolsNeedingProcessing(ctx context.Context, sel Selection) ([]*Candidate, error) {
	assetClasses := sel.AssetClasses
	if len(assetClasses) == 0 {
		assetClasses = []data.AssetClass{data.CommonStock}
	}

	classNames := make([]string, 0, len(assetClasses))
	for _, assetClass := range assetClasses {
		classNames = append(classNames, string(assetClass))
	}

	var candidates []*Candidate
	err := pgxscan.Select(ctx, manager.DB, &candidates,
		`SELECT s.id AS symbol_id, s.ticker, s.name, s.asset_class, s.exchange,
	s.listing_date, s.delisting_date,
	w.last_fiscal_date, w.last_successful_run, w.consecutive_failures
FROM symbols s
LEFT JOIN watermarks w ON w.symbol_id = s.id AND w.table_name = $1
WHERE s.active = true AND s.asset_class = ANY($2)
ORDER BY s.ticker`, sel.TableName, classNames)
	if err != nil {
		return nil, err
	}

	selected, excluded, err := buildQueue(ctx, candidates, sel, manager.screener(), manager.now())
	if err != nil {
		return nil, err
	}

	for reason, count := range excluded {
		log.Info().Str("TableName", sel.TableName).Str("Reason", reason).Int("Count", count).
			Msg("symbols excluded by pre-screening")
	}

	return selected, nil
}
