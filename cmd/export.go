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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/goccy/go-json"
	"github.com/gocarina/gocsv"
	"github.com/market-vault/mvdata/backblaze"
	"github.com/market-vault/mvdata/data"
	"github.com/market-vault/mvdata/warehouse"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportUpload bool

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <out-file>",
	Short: "Export the symbol registry as a CSV or JSON extract",
	Long: `The export sub-command writes the symbol registry to a CSV or JSON extract
file (format chosen by extension) and optionally uploads it to the
object-storage landing zone.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		fn := args[0]

		myWarehouse := &warehouse.Warehouse{DBUrl: viper.GetString("db.url")}
		if err := myWarehouse.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to warehouse")
		}
		defer myWarehouse.Close()

		var symbols []*data.Symbol
		err := pgxscan.Select(ctx, myWarehouse.Pool, &symbols,
			`SELECT id, ticker, name, asset_class, exchange, composite_figi, active,
listing_date, delisting_date, last_updated, source FROM symbols ORDER BY ticker`)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read symbol registry")
		}

		rows := make([]*symbolRow, 0, len(symbols))
		for _, symbol := range symbols {
			rows = append(rows, extractRow(symbol))
		}

		switch strings.ToLower(filepath.Ext(fn)) {
		case ".csv":
			err = writeCsvExtract(fn, rows)
		case ".json":
			err = writeJSONExtract(fn, rows)
		default:
			log.Fatal().Str("FileName", fn).Msg("unsupported extract format; expected .csv or .json")
		}

		if err != nil {
			log.Fatal().Err(err).Str("FileName", fn).Msg("could not write extract")
		}

		log.Info().Str("FileName", fn).Int("NumSymbols", len(symbols)).Msg("exported symbol registry")

		if exportUpload {
			bucketName := viper.GetString("backblaze.bucket")
			if err := backblaze.Upload(fn, bucketName, "symbols"); err != nil {
				log.Fatal().Err(err).Msg("could not upload extract to landing zone")
			}
		}
	},
}

// extractRow converts a registry entry to the extract interchange row.
// Dates are rendered in the YYYY-MM-DD form the import path parses.
func extractRow(symbol *data.Symbol) *symbolRow {
	return &symbolRow{
		Ticker:        symbol.Ticker,
		Name:          symbol.Name,
		AssetClass:    string(symbol.AssetClass),
		Exchange:      symbol.Exchange,
		CompositeFigi: symbol.CompositeFigi,
		Active:        symbol.Active,
		ListingDate:   fiscalDateString(symbol.ListingDate),
		DelistingDate: fiscalDateString(symbol.DelistingDate),
	}
}

func fiscalDateString(value *time.Time) string {
	if value == nil {
		return ""
	}

	return value.Format("2006-01-02")
}

func writeCsvExtract(fn string, rows []*symbolRow) error {
	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	return gocsv.MarshalFile(&rows, fh)
}

func writeJSONExtract(fn string, rows []*symbolRow) error {
	body, err := json.MarshalIndent(map[string]any{"symbols": rows}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fn, body, 0644)
}

func init() {
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "upload the extract to the backblaze landing zone")

	rootCmd.AddCommand(exportCmd)
}
