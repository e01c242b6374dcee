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

	"github.com/market-vault/mvdata/healthcheck"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	healthcheckTags     []string
	healthcheckSchedule string
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Manage healthchecks.io checks for extraction schedules",
}

var healthcheckCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a check and print its id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		checkID, err := healthcheck.Create(context.Background(), args[0], healthcheckTags, healthcheckSchedule)
		if err != nil {
			log.Fatal().Err(err).Str("Name", args[0]).Msg("could not create health check")
		}

		fmt.Println(checkID)
	},
}

var healthcheckPauseCmd = &cobra.Command{
	Use:   "pause <check-id>",
	Short: "Pause monitoring of a check",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := healthcheck.Pause(context.Background(), args[0]); err != nil {
			log.Fatal().Err(err).Str("CheckID", args[0]).Msg("could not pause health check")
		}

		log.Info().Str("CheckID", args[0]).Msg("health check paused")
	},
}

var healthcheckDeleteCmd = &cobra.Command{
	Use:   "delete <check-id>",
	Short: "Delete a check",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := healthcheck.Delete(context.Background(), args[0]); err != nil {
			log.Fatal().Err(err).Str("CheckID", args[0]).Msg("could not delete health check")
		}

		log.Info().Str("CheckID", args[0]).Msg("health check deleted")
	},
}

func init() {
	healthcheckCreateCmd.Flags().StringSliceVar(&healthcheckTags, "tags", []string{"mvdata"}, "tags to attach to the check")
	healthcheckCreateCmd.Flags().StringVar(&healthcheckSchedule, "schedule", "30 21 * * 1-5", "cron schedule the check expects pings on")

	healthcheckCmd.AddCommand(healthcheckCreateCmd)
	healthcheckCmd.AddCommand(healthcheckPauseCmd)
	healthcheckCmd.AddCommand(healthcheckDeleteCmd)
	rootCmd.AddCommand(healthcheckCmd)
}
