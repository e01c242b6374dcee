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

	"github.com/market-vault/mvdata/warehouse"
	"github.com/market-vault/mvdata/watermark"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset <table> <symbol-id>",
	Short: "Clear the failure counter for a poisoned symbol",
	Long: `Once a symbol reaches the consecutive failure cap it is excluded from the
work queue until an operator clears the counter. Clearing is deliberately a
manual action: repeated failures usually mean a delisting or an upstream data
problem that retrying will not fix.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tableName := args[0]

		symbolID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			log.Fatal().Err(err).Str("SymbolID", args[1]).Msg("symbol id must be an integer")
		}

		myWarehouse := &warehouse.Warehouse{DBUrl: viper.GetString("db.url")}
		if err := myWarehouse.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to warehouse")
		}
		defer myWarehouse.Close()

		manager := watermark.NewManager(myWarehouse.Pool)

		if err := manager.ResetFailures(ctx, tableName, symbolID); err != nil {
			log.Fatal().Err(err).Msg("could not reset failure counter")
		}

		log.Info().Str("TableName", tableName).Int64("SymbolID", symbolID).Msg("failure counter cleared")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
