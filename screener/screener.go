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
package screener

import (
	"context"
	"time"

	"github.com/market-vault/mvdata/data"
	"github.com/market-vault/mvdata/watermark"
	"github.com/rs/zerolog/log"
)

// Exclusion reasons reported in screening statistics.
const (
	ReasonDelisted   = "delisted"
	ReasonAssetClass = "asset_class"
	ReasonPoisoned   = "poisoned"
)

// Screener removes candidates unlikely to return data before extraction
// budget is committed to them. Implements watermark.Screener.
type Screener struct {
	// AssetClasses limits the eligible universe; empty allows all classes.
	AssetClasses []data.AssetClass

	// Now defaults to time.Now; injected for tests.
	Now func() time.Time
}

func (screener *Screener) now() time.Time {
	if screener.Now != nil {
		return screener.Now()
	}

	return time.Now()
}

func (screener *Screener) classAllowed(class data.AssetClass) bool {
	if len(screener.AssetClasses) == 0 {
		return true
	}

	for _, allowed := range screener.AssetClasses {
		if class == allowed {
			return true
		}
	}

	return false
}

// Screen filters the candidate list, preserving order, and tallies the
// exclusion reason for every removed candidate.
func (screener *Screener) Screen(_ context.Context, candidates []*watermark.Candidate, maxFailures int) (*watermark.ScreenResult, error) {
	now := screener.now()

	result := &watermark.ScreenResult{
		Eligible: make([]*watermark.Candidate, 0, len(candidates)),
		Excluded: map[string]int{},
	}

	for _, candidate := range candidates {
		switch {
		case candidate.DelistingDate != nil && candidate.DelistingDate.Before(now):
			result.Excluded[ReasonDelisted]++
		case !screener.classAllowed(candidate.AssetClass):
			result.Excluded[ReasonAssetClass]++
		case candidate.HasWatermark() && *candidate.ConsecutiveFailures >= maxFailures:
			result.Excluded[ReasonPoisoned]++
		default:
			result.Eligible = append(result.Eligible, candidate)
		}
	}

	if len(result.Excluded) > 0 {
		log.Debug().Interface("Excluded", result.Excluded).
			Int("NumEligible", len(result.Eligible)).Msg("screened candidate symbols")
	}

	return result, nil
}
