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

	"github.com/gocarina/gocsv"
	"github.com/market-vault/mvdata/data"
	"github.com/market-vault/mvdata/registry"
	"github.com/market-vault/mvdata/warehouse"
	"github.com/market-vault/mvdata/watermark"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

// symbolRow is one line of a symbol registry extract, for both import and
// export, so an exported extract always re-imports losslessly. Dates
// travel as YYYY-MM-DD strings and are parsed defensively; upstream
// extracts use "None" and empty strings interchangeably for missing
// values.
type symbolRow struct {
	Ticker        string `csv:"ticker" json:"ticker"`
	Name          string `csv:"name" json:"name"`
	AssetClass    string `csv:"asset_class" json:"asset_class"`
	Exchange      string `csv:"exchange" json:"exchange"`
	CompositeFigi string `csv:"composite_figi" json:"composite_figi"`
	Active        bool   `csv:"active" json:"active"`
	ListingDate   string `csv:"listing_date" json:"listing_date"`
	DelistingDate string `csv:"delisting_date" json:"delisting_date"`
}

func (row *symbolRow) symbol(source string) *data.Symbol {
	assetClass := data.AssetClass(row.AssetClass)
	if assetClass == "" {
		assetClass = data.UnknownAsset
	}

	return &data.Symbol{
		Ticker:        row.Ticker,
		Name:          row.Name,
		AssetClass:    assetClass,
		Exchange:      row.Exchange,
		CompositeFigi: row.CompositeFigi,
		Active:        row.Active,
		ListingDate:   watermark.ParseFiscalDate(row.ListingDate),
		DelistingDate: watermark.ParseFiscalDate(row.DelistingDate),
		Source:        source,
	}
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <extract-file...>",
	Short: "Import symbol registry extracts from CSV or JSON files",
	Long: `The import sub-command loads symbol extracts landed as CSV or JSON files
into the registry. Rows are upserted by ticker so re-importing the same
extract is safe.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myWarehouse := &warehouse.Warehouse{DBUrl: viper.GetString("db.url")}
		if err := myWarehouse.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to warehouse")
		}
		defer myWarehouse.Close()

		conn, err := myWarehouse.Pool.Acquire(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot acquire database connection")
		}
		defer conn.Release()

		for _, fn := range args {
			var (
				rows []*symbolRow
				err  error
			)

			switch strings.ToLower(filepath.Ext(fn)) {
			case ".csv":
				rows, err = readCsvExtract(fn)
			case ".json":
				rows, err = readJSONExtract(fn)
			default:
				log.Error().Str("FileName", fn).Msg("unsupported extract format; expected .csv or .json")
				continue
			}

			if err != nil {
				log.Error().Err(err).Str("FileName", fn).Msg("could not read extract")
				continue
			}

			numSaved := 0
			for _, row := range rows {
				if row.Ticker == "" {
					continue
				}

				if err := row.symbol(filepath.Base(fn)).SaveDB(ctx, conn); err == nil {
					numSaved++
				}
			}

			log.Info().Str("FileName", fn).Int("NumSymbols", numSaved).Msg("imported symbol extract")
		}

		// refresh the ticker -> id cache now that the registry changed
		registry.LoadCacheFromDB(ctx, conn)
	},
}

func readCsvExtract(fn string) ([]*symbolRow, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var rows []*symbolRow
	if err := gocsv.UnmarshalFile(fh, &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

func readJSONExtract(fn string) ([]*symbolRow, error) {
	body, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "symbols")
	if !result.Exists() {
		result = gjson.ParseBytes(body)
	}

	var rows []*symbolRow
	result.ForEach(func(_, value gjson.Result) bool {
		rows = append(rows, &symbolRow{
			Ticker:        value.Get("ticker").String(),
			Name:          value.Get("name").String(),
			AssetClass:    value.Get("asset_class").String(),
			Exchange:      value.Get("exchange").String(),
			CompositeFigi: value.Get("composite_figi").String(),
			Active:        value.Get("active").Bool(),
			ListingDate:   value.Get("listing_date").String(),
			DelistingDate: value.Get("delisting_date").String(),
		})
		return true
	})

	return rows, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
