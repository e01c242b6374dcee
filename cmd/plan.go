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
	"fmt"

	"github.com/google/uuid"
	"github.com/market-vault/mvdata/data"
	"github.com/market-vault/mvdata/healthcheck"
	"github.com/market-vault/mvdata/screener"
	"github.com/market-vault/mvdata/warehouse"
	"github.com/market-vault/mvdata/watermark"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	planStalenessHours int
	planMaxFailures    int
	planLimit          int
	planQuarterlyGap   bool
	planReportingLag   int
	planPreScreen      bool
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan <table>",
	Short: "List symbols needing processing for a dataset, in priority order",
	Long: `The plan sub-command builds the work queue an extractor should process for
the given dataset table (eod, financial_statements). Symbols that have never
been processed come first, then symbols missing an expected fiscal quarter,
then symbols whose last success is older than the staleness threshold.
Symbols at the consecutive failure cap are excluded until reset.`,
	Args: cobra.ExactArgs(1),
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

		runID := uuid.New()
		planLogger := log.With().Str("RunID", runID.String()).Str("TableName", tableName).Logger()

		manager := watermark.NewManager(myWarehouse.Pool)
		manager.Screener = &screener.Screener{
			AssetClasses: []data.AssetClass{data.CommonStock},
		}

		if checkID := viper.GetString("healthchecks.plan_check_id"); checkID != "" {
			if err := healthcheck.PingStart(ctx, checkID); err != nil {
				planLogger.Warn().Err(err).Msg("could not ping health check")
			}
		}

		candidates, err := manager.SymbolsNeedingProcessing(ctx, watermark.Selection{
			TableName:             tableName,
			StalenessHours:        planStalenessHours,
			MaxFailures:           planMaxFailures,
			Limit:                 planLimit,
			QuarterlyGapDetection: planQuarterlyGap,
			ReportingLagDays:      planReportingLag,
			PreScreening:          planPreScreen,
		})
		if err != nil {
			planLogger.Fatal().Err(err).Msg("could not build work queue")
		}

		for _, candidate := range candidates {
			lastRun := "never"
			if candidate.LastSuccessfulRun != nil {
				lastRun = candidate.LastSuccessfulRun.Format("2006-01-02 15:04")
			}

			fmt.Printf("%d\t%s\tpriority=%d\tlast_run=%s\n",
				candidate.SymbolID, candidate.Ticker, candidate.Priority, lastRun)
		}

		planLogger.Info().Int("NumSymbols", len(candidates)).Msg("work queue built")

		if checkID := viper.GetString("healthchecks.plan_check_id"); checkID != "" {
			if err := healthcheck.Ping(ctx, checkID); err != nil {
				planLogger.Warn().Err(err).Msg("could not ping health check")
			}
		}
	},
}

func init() {
	planCmd.Flags().IntVar(&planStalenessHours, "staleness", 24, "hours since last success before a re-fetch is due")
	planCmd.Flags().IntVar(&planMaxFailures, "maxFailures", 5, "consecutive failure cap")
	planCmd.Flags().IntVar(&planLimit, "limit", 0, "truncate the queue to N symbols (0 = unlimited)")
	planCmd.Flags().BoolVar(&planQuarterlyGap, "quarterlyGap", false, "enable quarterly gap detection for statement tables")
	planCmd.Flags().IntVar(&planReportingLag, "reportingLag", 45, "days after quarter close before statements are expected")
	planCmd.Flags().BoolVar(&planPreScreen, "preScreen", true, "screen out delisted and poisoned symbols before applying the limit")

	rootCmd.AddCommand(planCmd)
}
