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
	"regexp"
	"sort"
	"time"

	"github.com/market-vault/mvdata/data"
)

// Selection configures a call to SymbolsNeedingProcessing.
type Selection struct {
	// TableName identifies the downstream dataset whose watermarks are
	// consulted (e.g. "financial_statements", "eod").
	TableName string

	// StalenessHours is the re-fetch threshold measured from the last
	// successful run.
	StalenessHours int

	// MaxFailures is the consecutive failure cap; symbols at or past the
	// cap are skipped until reset.
	MaxFailures int

	// Limit truncates the final eligible list when > 0. Applied after
	// pre-screening, never before, so screened-out symbols do not starve
	// higher priority survivors.
	Limit int

	// QuarterlyGapDetection enables the quarterly-gap tier used for
	// periodic financial statement tables.
	QuarterlyGapDetection bool

	// ReportingLagDays is the grace period after quarter close before a
	// company's statements are expected to exist.
	ReportingLagDays int

	// PreScreening passes the candidate list through the configured
	// screener before the limit is applied.
	PreScreening bool

	// AssetClasses restricts the universe; empty means common stock.
	AssetClasses []data.AssetClass

	// Universe further restricts the candidate universe. When nil,
	// DefaultUniverse is used.
	Universe func(*Candidate) bool
}

// Candidate selection priorities. Lower sorts first.
const (
	PriorityNeverProcessed = 0
	PriorityQuarterlyGap   = 1
	PriorityStale          = 2
)

// Candidate is a symbol joined with its watermark state for one table,
// annotated with a selection priority.
type Candidate struct {
	SymbolID   int64           `db:"symbol_id"`
	Ticker     string          `db:"ticker"`
	Name       string          `db:"name"`
	AssetClass data.AssetClass `db:"asset_class"`
	Exchange   string          `db:"exchange"`

	ListingDate   *time.Time `db:"listing_date"`
	DelistingDate *time.Time `db:"delisting_date"`

	LastFiscalDate      *time.Time `db:"last_fiscal_date"`
	LastSuccessfulRun   *time.Time `db:"last_successful_run"`
	ConsecutiveFailures *int       `db:"consecutive_failures"`

	Priority int `db:"-"`
}

// HasWatermark reports whether a watermark row exists for the candidate.
// The selection query left-joins watermarks, so a missing row scans as a
// null failure counter.
func (candidate *Candidate) HasWatermark() bool {
	return candidate.ConsecutiveFailures != nil
}

func (candidate *Candidate) failures() int {
	if candidate.ConsecutiveFailures == nil {
		return 0
	}

	return *candidate.ConsecutiveFailures
}

// instrumentClassSuffix matches tickers carrying warrant, rights,
// preferred, and unit class markers (e.g. FOO.WS, BAR-R, BAZ.U)
var instrumentClassSuffix = regexp.MustCompile(`[.-](W|WS|WT|R|RT|P|PR[A-Z]?|U)$`)

// DefaultUniverse excludes tickers with instrument-class suffixes so the
// work queue stays on common shares rather than warrants, rights,
// preferreds, and units riding on the same registry.
func DefaultUniverse(candidate *Candidate) bool {
	return !instrumentClassSuffix.MatchString(candidate.Ticker)
}

// selectCandidates filters the raw universe down to candidates that need
// processing and stamps each survivor with its priority. The same
// ExpectedLatestQuarter value feeds both the gap predicate and the
// priority so the two can never disagree.
func selectCandidates(candidates []*Candidate, sel Selection, now time.Time) []*Candidate {
	universe := sel.Universe
	if universe == nil {
		universe = DefaultUniverse
	}

	var expectedQuarter time.Time
	if sel.QuarterlyGapDetection {
		expectedQuarter = ExpectedLatestQuarter(now, sel.ReportingLagDays)
	}

	selected := make([]*Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if !universe(candidate) {
			continue
		}

		if !candidate.HasWatermark() {
			candidate.Priority = PriorityNeverProcessed
			selected = append(selected, candidate)
			continue
		}

		if candidate.failures() >= sel.MaxFailures {
			// poison state applies to every tier
			continue
		}

		if candidate.LastSuccessfulRun == nil {
			candidate.Priority = PriorityNeverProcessed
			selected = append(selected, candidate)
			continue
		}

		stale := now.Sub(*candidate.LastSuccessfulRun) >= time.Duration(sel.StalenessHours)*time.Hour

		if sel.QuarterlyGapDetection &&
			(candidate.LastFiscalDate == nil || candidate.LastFiscalDate.Before(expectedQuarter)) {
			candidate.Priority = PriorityQuarterlyGap
			selected = append(selected, candidate)
			continue
		}

		if stale {
			candidate.Priority = PriorityStale
			selected = append(selected, candidate)
		}
	}

	orderCandidates(selected)
	return selected
}

// buildQueue runs the full selection pipeline over a raw candidate
// universe: select and prioritize, screen, then truncate. The limit is
// applied strictly after screening (see Selection.Limit).
func buildQueue(ctx context.Context, candidates []*Candidate, sel Selection, scr Screener, now time.Time) ([]*Candidate, map[string]int, error) {
	selected := selectCandidates(candidates, sel, now)

	excluded := map[string]int{}
	if sel.PreScreening {
		result, err := scr.Screen(ctx, selected, sel.MaxFailures)
		if err != nil {
			return nil, nil, err
		}

		selected = result.Eligible
		excluded = result.Excluded
	}

	if sel.Limit > 0 && len(selected) > sel.Limit {
		selected = selected[:sel.Limit]
	}

	return selected, excluded, nil
}

// orderCandidates sorts the work queue deterministically: priority tier,
// then oldest last successful run (nulls treated as earliest), then
// shortest ticker, then lexicographic. The trailing tie-breaks keep
// repeated runs marching through the backlog instead of re-processing
// the same prefix.
func orderCandidates(candidates []*Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}

		switch {
		case a.LastSuccessfulRun == nil && b.LastSuccessfulRun != nil:
			return true
		case a.LastSuccessfulRun != nil && b.LastSuccessfulRun == nil:
			return false
		case a.LastSuccessfulRun != nil && b.LastSuccessfulRun != nil:
			if !a.LastSuccessfulRun.Equal(*b.LastSuccessfulRun) {
				return a.LastSuccessfulRun.Before(*b.LastSuccessfulRun)
			}
		}

		if len(a.Ticker) != len(b.Ticker) {
			return len(a.Ticker) < len(b.Ticker)
		}

		return a.Ticker < b.Ticker
	})
}
