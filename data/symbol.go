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
package data

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Symbol is one entry in the tradable-instrument registry.
type Symbol struct {
	ID            int64      `db:"id" json:"id" csv:"-"`
	Ticker        string     `db:"ticker" json:"ticker" csv:"ticker"`
	Name          string     `db:"name" json:"name" csv:"name"`
	AssetClass    AssetClass `db:"asset_class" json:"asset_class" csv:"asset_class"`
	Exchange      string     `db:"exchange" json:"exchange" csv:"exchange"`
	CompositeFigi string     `db:"composite_figi" json:"composite_figi" csv:"composite_figi"`
	Active        bool       `db:"active" json:"active" csv:"active"`

	ListingDate   *time.Time `db:"listing_date" json:"listing_date" csv:"listing_date"`
	DelistingDate *time.Time `db:"delisting_date" json:"delisting_date" csv:"delisting_date"`

	LastUpdated time.Time `db:"last_updated" json:"last_updated" csv:"-"`
	Source      string    `db:"source" json:"source" csv:"source"`
}

func (symbol *Symbol) SaveDB(ctx context.Context, dbConn Execer) error {
	sql := `INSERT INTO symbols (
		"ticker",
		"name",
		"asset_class",
		"exchange",
		"composite_figi",
		"active",
		"listing_date",
		"delisting_date",
		"last_updated",
		"source"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, now(), $9
	) ON CONFLICT ON CONSTRAINT symbols_ticker_key
	DO UPDATE SET
		name = EXCLUDED.name,
		asset_class = EXCLUDED.asset_class,
		exchange = EXCLUDED.exchange,
		composite_figi = EXCLUDED.composite_figi,
		active = EXCLUDED.active,
		listing_date = EXCLUDED.listing_date,
		delisting_date = EXCLUDED.delisting_date,
		last_updated = now(),
		source = EXCLUDED.source;`

	_, err := dbConn.Exec(ctx, sql, symbol.Ticker, symbol.Name, symbol.AssetClass,
		symbol.Exchange, symbol.CompositeFigi, symbol.Active, symbol.ListingDate,
		symbol.DelistingDate, symbol.Source)
	if err != nil {
		log.Error().Err(err).Str("Ticker", symbol.Ticker).Msg("error saving symbol to database")
	}

	return err
}

// Delisted reports whether the symbol's delisting date has passed.
func (symbol *Symbol) Delisted(now time.Time) bool {
	return symbol.DelistingDate != nil && symbol.DelistingDate.Before(now)
}
