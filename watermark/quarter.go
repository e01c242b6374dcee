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

import "time"

// quarterStart returns the first day of the calendar quarter containing t.
func quarterStart(t time.Time) time.Time {
	month := time.Month(((int(t.Month())-1)/3)*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, t.Location())
}

// ExpectedLatestQuarter returns the end-date of the most recent calendar
// quarter whose financial statements should already be publicly available.
// Companies do not report immediately at quarter close; a quarter is only
// expected once today is at least reportingLagDays past the quarter
// boundary. Walks backward in 3-month steps until that holds.
//
// Example: on 2025-05-20 with a 45 day lag the expected quarter is
// 2025-03-31 (the Q2 boundary of 2025-04-01 plus 45 days is 2025-05-16).
func ExpectedLatestQuarter(today time.Time, reportingLagDays int) time.Time {
	boundary := quarterStart(today)

	for today.Before(boundary.AddDate(0, 0, reportingLagDays)) {
		boundary = boundary.AddDate(0, -3, 0)
	}

	return boundary.AddDate(0, 0, -1)
}
