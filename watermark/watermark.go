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
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Watermark records the incremental extraction state for a single
// (table, symbol) pair. There is exactly one row per pair; rows are
// created on first contact and mutated after every extraction attempt,
// never deleted.
type Watermark struct {
	TableName string `db:"table_name"`
	SymbolID  int64  `db:"symbol_id"`

	// LastFiscalDate is the latest business-period end-date successfully
	// ingested. Nil means no data has ever been ingested for the pair.
	LastFiscalDate *time.Time `db:"last_fiscal_date"`

	// LastSuccessfulRun is the timestamp of the most recent successful
	// extraction attempt.
	LastSuccessfulRun *time.Time `db:"last_successful_run"`

	// ConsecutiveFailures counts back-to-back failed attempts since the
	// last success. Once it reaches the configured cap the symbol is
	// skipped until the counter is reset by an operator.
	ConsecutiveFailures int `db:"consecutive_failures"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Stale reports whether the elapsed time since the last successful run
// meets or exceeds the staleness threshold. A watermark with no recorded
// success is always stale.
func (watermark *Watermark) Stale(now time.Time, stalenessHours int) bool {
	if watermark.LastSuccessfulRun == nil {
		return true
	}

	return now.Sub(*watermark.LastSuccessfulRun) >= time.Duration(stalenessHours)*time.Hour
}

// ShouldProcess evaluates the time-based eligibility rule for this
// watermark: eligible while the failure cap has not been reached and the
// watermark is stale. A nil watermark (never created) is handled by the
// caller and is always eligible.
func (watermark *Watermark) ShouldProcess(now time.Time, stalenessHours, maxFailures int) bool {
	if watermark.ConsecutiveFailures >= maxFailures {
		// poison state: skip until an operator resets the counter
		return false
	}

	return watermark.Stale(now, stalenessHours)
}

// ParseFiscalDate converts a fiscal date string from an upstream extract
// into a time. Empty and placeholder values ("None", "null") map to nil;
// strings that fail to parse are logged as a data-quality issue and also
// map to nil rather than aborting the run.
func ParseFiscalDate(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	switch trimmed {
	case "", "None", "none", "null", "NULL":
		return nil
	}

	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		log.Warn().Str("FiscalDate", value).Msg("discarding malformed fiscal date from upstream")
		return nil
	}

	return &parsed
}
