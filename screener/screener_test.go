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
package screener_test

import (
	"context"
	"time"

	"github.com/market-vault/mvdata/data"
	"github.com/market-vault/mvdata/screener"
	"github.com/market-vault/mvdata/watermark"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Screener", func() {
	var (
		now     time.Time
		subject *screener.Screener
	)

	day := func(value string) time.Time {
		parsed, err := time.Parse("2006-01-02", value)
		Expect(err).NotTo(HaveOccurred())
		return parsed
	}

	BeforeEach(func() {
		now = day("2025-05-20")
		subject = &screener.Screener{
			AssetClasses: []data.AssetClass{data.CommonStock},
			Now:          func() time.Time { return now },
		}
	})

	It("excludes delisted symbols", func() {
		delisted := day("2024-01-15")
		result, err := subject.Screen(context.Background(), []*watermark.Candidate{
			{Ticker: "DEAD", AssetClass: data.CommonStock, DelistingDate: &delisted},
			{Ticker: "LIVE", AssetClass: data.CommonStock},
		}, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Eligible).To(HaveLen(1))
		Expect(result.Eligible[0].Ticker).To(Equal("LIVE"))
		Expect(result.Excluded).To(HaveKeyWithValue(screener.ReasonDelisted, 1))
	})

	It("excludes asset classes outside the configured universe", func() {
		result, err := subject.Screen(context.Background(), []*watermark.Candidate{
			{Ticker: "SPY", AssetClass: data.ETF},
			{Ticker: "AAPL", AssetClass: data.CommonStock},
		}, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Eligible).To(HaveLen(1))
		Expect(result.Eligible[0].Ticker).To(Equal("AAPL"))
		Expect(result.Excluded).To(HaveKeyWithValue(screener.ReasonAssetClass, 1))
	})

	It("excludes symbols at the failure cap", func() {
		failures := 5
		result, err := subject.Screen(context.Background(), []*watermark.Candidate{
			{Ticker: "TOXIC", AssetClass: data.CommonStock, ConsecutiveFailures: &failures},
		}, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Eligible).To(BeEmpty())
		Expect(result.Excluded).To(HaveKeyWithValue(screener.ReasonPoisoned, 1))
	})

	It("preserves candidate order", func() {
		result, err := subject.Screen(context.Background(), []*watermark.Candidate{
			{Ticker: "CC", AssetClass: data.CommonStock},
			{Ticker: "AA", AssetClass: data.CommonStock},
			{Ticker: "BB", AssetClass: data.CommonStock},
		}, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect([]string{
			result.Eligible[0].Ticker,
			result.Eligible[1].Ticker,
			result.Eligible[2].Ticker,
		}).To(Equal([]string{"CC", "AA", "BB"}))
	})

	It("allows every asset class when none are configured", func() {
		subject.AssetClasses = nil
		result, err := subject.Screen(context.Background(), []*watermark.Candidate{
			{Ticker: "SPY", AssetClass: data.ETF},
		}, 5)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Eligible).To(HaveLen(1))
	})
})
