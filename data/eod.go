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

type EodQuote struct {
	SymbolID int64     `db:"symbol_id" json:"symbol_id"`
	Date     time.Time `db:"event_date" json:"date"`
	Open     float64   `db:"open" json:"open"`
	High     float64   `db:"high" json:"high"`
	Low      float64   `db:"low" json:"low"`
	Close    float64   `db:"close" json:"close"`
	Volume   float64   `db:"volume" json:"volume"`
	Dividend float64   `db:"dividend" json:"divCash"`
	Split    float64   `db:"split_factor" json:"splitFactor"`
}

func (eod *EodQuote) SaveDB(ctx context.Context, dbConn Execer) error {
	sql := `INSERT INTO eod (
		"symbol_id",
		"event_date",
		"open",
		"high",
		"low",
		"close",
		"volume",
		"dividend",
		"split_factor"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	) ON CONFLICT ON CONSTRAINT eod_pkey
	DO UPDATE SET
		open = EXCLUDED.open,
		high = EXCLUDED.high,
		low = EXCLUDED.low,
		close = EXCLUDED.close,
		volume = EXCLUDED.volume,
		dividend = EXCLUDED.dividend,
		split_factor = EXCLUDED.split_factor;`

	_, err := dbConn.Exec(ctx, sql, eod.SymbolID, eod.Date, eod.Open, eod.High,
		eod.Low, eod.Close, eod.Volume, eod.Dividend, eod.Split)
	if err != nil {
		log.Error().Err(err).Int64("SymbolID", eod.SymbolID).Msg("error saving EOD quote to database")
	}

	return err
}
