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
package cmd

import (
	"context"
	"strconv"

	"github.com/market-vault/mvdata/data"
	"github.com/market-vault/mvdata/healthcheck"
	"github.com/market-vault/mvdata/registry"
	"github.com/market-vault/mvdata/warehouse"
	"github.com/market-vault/mvdata/watermark"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	recordFailed     bool
	recordFiscalDate string
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record <table> <symbol-id|ticker>",
	Short: "Record the outcome of an extraction attempt",
	Long: `The record sub-command updates the watermark for a (table, symbol) pair
after an extraction attempt. A successful attempt resets the failure counter
and advances the fiscal date; a failed attempt increments the counter and
leaves prior successful state untouched. The symbol may be given as its
registry id or as a ticker.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tableName := args[0]
		if !data.ValidTable(tableName) {
			log.Fatal().Str("TableName", tableName).Msg("unknown dataset table; expected eod or financial_statements")
		}

		myWarehouse := &warehouse.Warehouse{DBUrl: viper.GetString("db.url")}
		if err := myWarehouse.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to warehouse")
		}
		defer myWarehouse.Close()

		symbolID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			// not numeric; resolve the ticker through the registry cache
			conn, acquireErr := myWarehouse.Pool.Acquire(ctx)
			if acquireErr != nil {
				log.Fatal().Err(acquireErr).Msg("cannot acquire database connection")
			}
			registry.LoadCacheFromDB(ctx, conn)
			conn.Release()

			id, ok := registry.LookupID(args[1])
			if !ok {
				log.Fatal().Str("Ticker", args[1]).Msg("ticker is not in the active symbol registry")
			}
			symbolID = id
		}

		manager := watermark.NewManager(myWarehouse.Pool)

		fiscalDate := watermark.ParseFiscalDate(recordFiscalDate)

		if err := manager.UpdateWatermark(ctx, tableName, symbolID, fiscalDate, !recordFailed); err != nil {
			log.Fatal().Err(err).Msg("could not update watermark")
		}

		if checkID := viper.GetString("healthchecks.record_check_id"); checkID != "" {
			ping := healthcheck.Ping
			if recordFailed {
				ping = healthcheck.PingFail
			}
			if err := ping(ctx, checkID); err != nil {
				log.Warn().Err(err).Msg("could not ping health check")
			}
		}

		log.Info().Str("TableName", tableName).Int64("SymbolID", symbolID).
			Bool("Success", !recordFailed).Msg("watermark updated")
	},
}

func init() {
	recordCmd.Flags().BoolVar(&recordFailed, "failed", false, "record the attempt as a failure")
	recordCmd.Flags().StringVar(&recordFiscalDate, "fiscalDate", "", "fiscal period end-date ingested (YYYY-MM-DD)")

	rootCmd.AddCommand(recordCmd)
}
