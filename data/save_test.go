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
package data_test

import (
	"context"
	"time"

	"github.com/market-vault/mvdata/data"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var _ = Describe("SaveDB", func() {
	var (
		ctx  context.Context
		mock pgxmock.PgxPoolIface
	)

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mock.Close()
	})

	It("upserts a symbol by ticker", func() {
		listing := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
		symbol := &data.Symbol{
			Ticker:        "AAPL",
			Name:          "Apple Inc.",
			AssetClass:    data.CommonStock,
			Exchange:      "XNAS",
			CompositeFigi: "BBG000B9XRY4",
			Active:        true,
			ListingDate:   &listing,
			Source:        "test",
		}

		mock.ExpectExec(`ON CONFLICT ON CONSTRAINT symbols_ticker_key`).
			WithArgs("AAPL", "Apple Inc.", data.CommonStock, "XNAS", "BBG000B9XRY4",
				true, &listing, (*time.Time)(nil), "test").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		Expect(symbol.SaveDB(ctx, mock)).To(Succeed())
	})

	It("upserts an EOD quote by (symbol, date)", func() {
		quote := &data.EodQuote{
			SymbolID: 42,
			Date:     time.Date(2025, time.May, 19, 0, 0, 0, 0, time.UTC),
			Open:     10, High: 11, Low: 9, Close: 10.5,
			Volume: 1000, Dividend: 0, Split: 1,
		}

		mock.ExpectExec(`ON CONFLICT ON CONSTRAINT eod_pkey`).
			WithArgs(int64(42), quote.Date, 10.0, 11.0, 9.0, 10.5, 1000.0, 0.0, 1.0).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		Expect(quote.SaveDB(ctx, mock)).To(Succeed())
	})

	It("upserts a financial statement by (symbol, report period)", func() {
		statement := &data.FinancialStatement{
			SymbolID:     42,
			ReportPeriod: time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
			FiledOn:      time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC),
		}

		mock.ExpectExec(`ON CONFLICT ON CONSTRAINT financial_statements_pkey`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		Expect(statement.SaveDB(ctx, mock)).To(Succeed())
	})
})
