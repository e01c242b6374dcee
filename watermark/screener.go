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

import "context"

// Screener removes candidates that are unlikely to yield data before
// extraction budget is committed to them (delisted symbols, wrong asset
// class, poisoned failure counters). Implementations must preserve the
// relative order of the candidates they keep.
type Screener interface {
	Screen(ctx context.Context, candidates []*Candidate, maxFailures int) (*ScreenResult, error)
}

// ScreenResult is the outcome of a screening pass.
type ScreenResult struct {
	// Eligible holds the surviving candidates in their original order.
	Eligible []*Candidate

	// Excluded counts removed candidates by exclusion reason.
	Excluded map[string]int
}

// NopScreener passes every candidate through. Used when no screener is
// configured so callers never branch on nil.
type NopScreener struct{}

func (NopScreener) Screen(_ context.Context, candidates []*Candidate, _ int) (*ScreenResult, error) {
	return &ScreenResult{
		Eligible: candidates,
		Excluded: map[string]int{},
	}, nil
}
