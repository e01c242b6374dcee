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
package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the warehouse in markdown
func (myWarehouse *Warehouse) Summary(ctx context.Context, maxFailures int) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString(fmt.Sprintf("# %s\n", myWarehouse.Name)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Details\n\n"); err != nil {
		return "", err
	}

	// Database connection string
	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", myWarehouse.DBUrl)); err != nil {
		return "", err
	}

	// Active symbols tracked
	numSymbols, err := myWarehouse.NumSymbols(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Symbols Tracked: %d\n", numSymbols)); err != nil {
		return "", err
	}

	// Watermark rows
	numWatermarks, err := myWarehouse.NumWatermarks(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Watermarks: %d\n", numWatermarks)); err != nil {
		return "", err
	}

	// Total record count
	totalRecords, err := myWarehouse.TotalRecords(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Total Records: %d\n\n", totalRecords)); err != nil {
		return "", err
	}

	// Poisoned symbols waiting on a manual reset
	poisoned, err := myWarehouse.PoisonedSymbols(ctx, maxFailures)
	if err != nil {
		return "", err
	}

	if len(poisoned) > 0 {
		if _, err := builder.WriteString("## Poisoned Symbols\n\n"); err != nil {
			return "", err
		}

		for _, entry := range poisoned {
			if _, err := builder.WriteString(p.Sprintf("  * %s / %s (%d failures)\n",
				entry.TableName, entry.Ticker, entry.ConsecutiveFailures)); err != nil {
				return "", err
			}
		}

		if _, err := builder.WriteString("\n"); err != nil {
			return "", err
		}
	}

	// Last updated time
	lastUpdated, err := myWarehouse.LastUpdated(ctx)
	if err != nil {
		return "", err
	}

	age := timeago.English.Format(lastUpdated)

	if lastUpdated.Equal(time.Time{}) {
		if _, err := builder.WriteString("Last Updated: Never\n\n"); err != nil {
			return "", err
		}
	} else {
		if _, err := builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n\n", age, lastUpdated.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}
