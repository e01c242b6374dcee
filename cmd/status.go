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

	"github.com/charmbracelet/glamour"
	"github.com/market-vault/mvdata/warehouse"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display information about the warehouse and any poisoned symbols",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myWarehouse, err := warehouse.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not load warehouse info")
		}

		summary, err := myWarehouse.Summary(ctx, viper.GetInt("watermark.max_failures"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not create warehouse summary document")
		}

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(80),
		)

		out, err := r.Render(summary)
		if err != nil {
			log.Fatal().Err(err).Msg("could not render summary document")
		}

		fmt.Print(out)
	},
}

func init() {
	statusCmd.Flags().Int("maxFailures", 5, "consecutive failure cap marking a symbol as poisoned")
	if err := viper.BindPFlag("watermark.max_failures", statusCmd.Flags().Lookup("maxFailures")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for maxFailures failed")
	}

	rootCmd.AddCommand(statusCmd)
}
