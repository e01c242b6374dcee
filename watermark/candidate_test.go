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
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newCandidate(ticker string) *Candidate {
	return &Candidate{Ticker: ticker}
}

func withRun(candidate *Candidate, lastRun time.Time) *Candidate {
	failures := 0
	candidate.ConsecutiveFailures = &failures
	candidate.LastSuccessfulRun = &lastRun
	return candidate
}

func withFiscal(candidate *Candidate, fiscal time.Time) *Candidate {
	candidate.LastFiscalDate = &fiscal
	return candidate
}

func withFailures(candidate *Candidate, count int) *Candidate {
	candidate.ConsecutiveFailures = &count
	return candidate
}

func tickers(candidates []*Candidate) []string {
	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		names = append(names, candidate.Ticker)
	}
	return names
}

var _ = Describe("DefaultUniverse", func() {
	It("keeps common share tickers", func() {
		Expect(DefaultUniverse(newCandidate("AAPL"))).To(BeTrue())
		Expect(DefaultUniverse(newCandidate("BRK.A"))).To(BeTrue())
	})

	It("excludes instrument class suffixes", func() {
		Expect(DefaultUniverse(newCandidate("FOO.WS"))).To(BeFalse())
		Expect(DefaultUniverse(newCandidate("BAR-W"))).To(BeFalse())
		Expect(DefaultUniverse(newCandidate("BAZ.U"))).To(BeFalse())
		Expect(DefaultUniverse(newCandidate("QUX-PRA"))).To(BeFalse())
		Expect(DefaultUniverse(newCandidate("ZAP.R"))).To(BeFalse())
	})
})

var _ = Describe("selectCandidates", func() {
	var (
		now time.Time
		sel Selection
	)

	BeforeEach(func() {
		now = day("2025-05-20")
		sel = Selection{
			TableName:      "eod",
			StalenessHours: 24,
			MaxFailures:    5,
		}
	})

	It("orders never-processed first, then oldest success first", func() {
		t1 := withRun(newCandidate("OLD"), now.Add(-72*time.Hour))
		t2 := withRun(newCandidate("NEW"), now.Add(-48*time.Hour))
		never := newCandidate("FRESH")

		queue := selectCandidates([]*Candidate{t2, t1, never}, sel, now)
		Expect(tickers(queue)).To(Equal([]string{"FRESH", "OLD", "NEW"}))
	})

	It("breaks last-run ties by ticker length then lexicographically", func() {
		lastRun := now.Add(-48 * time.Hour)
		queue := selectCandidates([]*Candidate{
			withRun(newCandidate("BBB"), lastRun),
			withRun(newCandidate("ZZ"), lastRun),
			withRun(newCandidate("AAA"), lastRun),
		}, sel, now)
		Expect(tickers(queue)).To(Equal([]string{"ZZ", "AAA", "BBB"}))
	})

	It("drops fresh symbols", func() {
		queue := selectCandidates([]*Candidate{
			withRun(newCandidate("FRESH"), now.Add(-1*time.Hour)),
			withRun(newCandidate("STALE"), now.Add(-48*time.Hour)),
		}, sel, now)
		Expect(tickers(queue)).To(Equal([]string{"STALE"}))
	})

	It("drops poisoned symbols in every tier", func() {
		sel.QuarterlyGapDetection = true
		sel.ReportingLagDays = 45

		poisoned := withFailures(withFiscal(newCandidate("TOXIC"), day("2023-12-31")), 5)
		queue := selectCandidates([]*Candidate{poisoned}, sel, now)
		Expect(queue).To(BeEmpty())
	})

	It("drops instrument-class tickers from the universe", func() {
		queue := selectCandidates([]*Candidate{
			newCandidate("FOO.WS"),
			newCandidate("FOO"),
		}, sel, now)
		Expect(tickers(queue)).To(Equal([]string{"FOO"}))
	})

	Context("with quarterly gap detection", func() {
		BeforeEach(func() {
			sel.TableName = "financial_statements"
			sel.QuarterlyGapDetection = true
			sel.ReportingLagDays = 45
		})

		It("flags a symbol whose fiscal date lags the expected quarter", func() {
			// on 2025-05-20 the expected latest quarter is 2025-03-31
			lagging := withFiscal(withRun(newCandidate("LAG"), now.Add(-1*time.Hour)), day("2024-12-31"))

			queue := selectCandidates([]*Candidate{lagging}, sel, now)
			Expect(tickers(queue)).To(Equal([]string{"LAG"}))
			Expect(queue[0].Priority).To(Equal(PriorityQuarterlyGap))
		})

		It("does not flag a current symbol on gap grounds alone", func() {
			current := withFiscal(withRun(newCandidate("CUR"), now.Add(-1*time.Hour)), day("2025-03-31"))

			queue := selectCandidates([]*Candidate{current}, sel, now)
			Expect(queue).To(BeEmpty())
		})

		It("treats a null fiscal date as a gap", func() {
			missing := withRun(newCandidate("MISS"), now.Add(-1*time.Hour))

			queue := selectCandidates([]*Candidate{missing}, sel, now)
			Expect(tickers(queue)).To(Equal([]string{"MISS"}))
			Expect(queue[0].Priority).To(Equal(PriorityQuarterlyGap))
		})

		It("ranks gap symbols above stale-only symbols", func() {
			stale := withFiscal(withRun(newCandidate("STALE"), now.Add(-200*time.Hour)), day("2025-03-31"))
			gap := withFiscal(withRun(newCandidate("GAP"), now.Add(-1*time.Hour)), day("2024-12-31"))
			never := newCandidate("NEVER")

			queue := selectCandidates([]*Candidate{stale, gap, never}, sel, now)
			Expect(tickers(queue)).To(Equal([]string{"NEVER", "GAP", "STALE"}))
			Expect(queue[0].Priority).To(Equal(PriorityNeverProcessed))
			Expect(queue[1].Priority).To(Equal(PriorityQuarterlyGap))
			Expect(queue[2].Priority).To(Equal(PriorityStale))
		})
	})
})

// rejectScreener drops every candidate whose ticker appears in its deny set
type rejectScreener struct {
	deny map[string]bool
}

func (screener *rejectScreener) Screen(_ context.Context, candidates []*Candidate, _ int) (*ScreenResult, error) {
	result := &ScreenResult{Excluded: map[string]int{}}
	for _, candidate := range candidates {
		if screener.deny[candidate.Ticker] {
			result.Excluded["denied"]++
			continue
		}
		result.Eligible = append(result.Eligible, candidate)
	}
	return result, nil
}

var _ = Describe("buildQueue", func() {
	var (
		now time.Time
		sel Selection
	)

	BeforeEach(func() {
		now = day("2025-05-20")
		sel = Selection{
			TableName:      "eod",
			StalenessHours: 24,
			MaxFailures:    5,
			PreScreening:   true,
		}
	})

	It("screens before truncating so survivors are drawn from the full queue", func() {
		candidates := make([]*Candidate, 0, 10)
		deny := map[string]bool{}
		for _, ticker := range []string{"AA", "BB", "CC", "DD", "EE", "FF", "GG", "HH", "II", "JJ"} {
			candidates = append(candidates, newCandidate(ticker))
		}
		for _, ticker := range []string{"AA", "BB", "CC", "DD", "EE", "FF"} {
			deny[ticker] = true
		}

		sel.Limit = 3
		queue, excluded, err := buildQueue(context.Background(), candidates, sel, &rejectScreener{deny: deny}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(excluded).To(HaveKeyWithValue("denied", 6))

		// all three drawn from the four screening survivors, in order
		Expect(tickers(queue)).To(Equal([]string{"GG", "HH", "II"}))
	})

	It("applies no limit when zero", func() {
		queue, _, err := buildQueue(context.Background(),
			[]*Candidate{newCandidate("AA"), newCandidate("BB")}, sel, NopScreener{}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(queue).To(HaveLen(2))
	})

	It("skips screening when disabled", func() {
		sel.PreScreening = false
		queue, excluded, err := buildQueue(context.Background(),
			[]*Candidate{newCandidate("AA")}, sel, &rejectScreener{deny: map[string]bool{"AA": true}}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(excluded).To(BeEmpty())
		Expect(tickers(queue)).To(Equal([]string{"AA"}))
	})
})
