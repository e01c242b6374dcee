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
	"time"

	"github.com/market-vault/mvdata/data"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Symbol", func() {
	now := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)

	It("is not delisted without a delisting date", func() {
		symbol := &data.Symbol{Ticker: "AAPL"}
		Expect(symbol.Delisted(now)).To(BeFalse())
	})

	It("is delisted once the delisting date passes", func() {
		past := now.AddDate(-1, 0, 0)
		symbol := &data.Symbol{Ticker: "DEAD", DelistingDate: &past}
		Expect(symbol.Delisted(now)).To(BeTrue())
	})

	It("is not delisted before a future delisting date", func() {
		future := now.AddDate(0, 1, 0)
		symbol := &data.Symbol{Ticker: "SOON", DelistingDate: &future}
		Expect(symbol.Delisted(now)).To(BeFalse())
	})
})
