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
package registry

import (
	"context"

	"github.com/alphadose/haxmap"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/market-vault/mvdata/data"
	"github.com/rs/zerolog/log"
)

var (
	symbolMap *haxmap.Map[string, int64]
)

func init() {
	symbolMap = haxmap.New[string, int64]()
}

func MapInstance() *haxmap.Map[string, int64] {
	return symbolMap
}

// LoadCacheFromDB warms the ticker -> symbol id map from the registry so
// extract loading can resolve symbols without a round-trip per row.
func LoadCacheFromDB(ctx context.Context, dbConn *pgxpool.Conn) {
	rows, err := dbConn.Query(ctx, "SELECT id, ticker FROM symbols WHERE active=true")
	if err != nil {
		log.Error().Err(err).Msg("load symbol registry cache failed")
		return
	}

	var activeSymbols []*data.Symbol
	err = pgxscan.ScanAll(&activeSymbols, rows)
	if err != nil {
		log.Error().Err(err).Msg("error when scanning values into activeSymbols")
	}

	symbolMap := MapInstance()

	for _, symbol := range activeSymbols {
		symbolMap.Set(symbol.Ticker, symbol.ID)
	}
}

// LookupID resolves a ticker to its registry id; ok is false when the
// ticker is unknown or inactive.
func LookupID(ticker string) (int64, bool) {
	return MapInstance().Get(ticker)
}
