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
	"path/filepath"
	"time"

	"github.com/market-vault/mvdata/data"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("symbol extracts", func() {
	var (
		listing time.Time
		symbol  *data.Symbol
	)

	BeforeEach(func() {
		listing = time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
		symbol = &data.Symbol{
			Ticker:        "AAPL",
			Name:          "Apple Inc.",
			AssetClass:    data.CommonStock,
			Exchange:      "XNAS",
			CompositeFigi: "BBG000B9XRY4",
			Active:        true,
			ListingDate:   &listing,
		}
	})

	It("renders dates in the form the import path parses", func() {
		row := extractRow(symbol)
		Expect(row.ListingDate).To(Equal("2020-01-15"))
		Expect(row.DelistingDate).To(Equal(""))
	})

	It("round-trips a CSV extract without losing dates", func() {
		fn := filepath.Join(GinkgoT().TempDir(), "symbols.csv")
		Expect(writeCsvExtract(fn, []*symbolRow{extractRow(symbol)})).To(Succeed())

		rows, err := readCsvExtract(fn)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))

		imported := rows[0].symbol("symbols.csv")
		Expect(imported.Ticker).To(Equal("AAPL"))
		Expect(imported.AssetClass).To(Equal(data.CommonStock))
		Expect(imported.ListingDate).To(Equal(&listing))
		Expect(imported.DelistingDate).To(BeNil())
	})

	It("round-trips a JSON extract without losing dates", func() {
		fn := filepath.Join(GinkgoT().TempDir(), "symbols.json")
		Expect(writeJSONExtract(fn, []*symbolRow{extractRow(symbol)})).To(Succeed())

		rows, err := readJSONExtract(fn)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))

		imported := rows[0].symbol("symbols.json")
		Expect(imported.Ticker).To(Equal("AAPL"))
		Expect(imported.Active).To(BeTrue())
		Expect(imported.ListingDate).To(Equal(&listing))
		Expect(imported.DelistingDate).To(BeNil())
	})
})
