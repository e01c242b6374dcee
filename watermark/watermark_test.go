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
package watermark

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseFiscalDate", func() {
	It("parses a well formed date", func() {
		parsed := ParseFiscalDate("2024-12-31")
		Expect(parsed).NotTo(BeNil())
		Expect(*parsed).To(Equal(day("2024-12-31")))
	})

	It("treats placeholder values as null", func() {
		Expect(ParseFiscalDate("")).To(BeNil())
		Expect(ParseFiscalDate("None")).To(BeNil())
		Expect(ParseFiscalDate("null")).To(BeNil())
		Expect(ParseFiscalDate("  NULL ")).To(BeNil())
	})

	It("treats malformed values as null instead of failing", func() {
		Expect(ParseFiscalDate("12/31/2024")).To(BeNil())
		Expect(ParseFiscalDate("not-a-date")).To(BeNil())
	})
})

var _ = Describe("Watermark", func() {
	var now time.Time

	BeforeEach(func() {
		now = day("2025-05-20")
	})

	Describe("Stale", func() {
		It("is always stale with no recorded success", func() {
			watermark := &Watermark{}
			Expect(watermark.Stale(now, 24)).To(BeTrue())
		})

		It("is stale once the threshold elapses", func() {
			lastRun := now.Add(-25 * time.Hour)
			watermark := &Watermark{LastSuccessfulRun: &lastRun}
			Expect(watermark.Stale(now, 24)).To(BeTrue())
		})

		It("is fresh inside the threshold", func() {
			lastRun := now.Add(-23 * time.Hour)
			watermark := &Watermark{LastSuccessfulRun: &lastRun}
			Expect(watermark.Stale(now, 24)).To(BeFalse())
		})
	})

	Describe("ShouldProcess", func() {
		It("skips symbols at the failure cap regardless of staleness", func() {
			lastRun := now.Add(-1000 * time.Hour)
			watermark := &Watermark{
				LastSuccessfulRun:   &lastRun,
				ConsecutiveFailures: 5,
			}
			Expect(watermark.ShouldProcess(now, 24, 5)).To(BeFalse())
		})

		It("processes a stale symbol below the cap", func() {
			lastRun := now.Add(-48 * time.Hour)
			watermark := &Watermark{
				LastSuccessfulRun:   &lastRun,
				ConsecutiveFailures: 4,
			}
			Expect(watermark.ShouldProcess(now, 24, 5)).To(BeTrue())
		})

		It("skips a fresh symbol", func() {
			lastRun := now.Add(-1 * time.Hour)
			watermark := &Watermark{LastSuccessfulRun: &lastRun}
			Expect(watermark.ShouldProcess(now, 24, 5)).To(BeFalse())
		})
	})
})
