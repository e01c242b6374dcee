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
package data

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of a pgx connection the row writers need.
// *pgxpool.Conn and *pgxpool.Pool both satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type AssetClass string

const (
	CommonStock  AssetClass = "CS"
	ETF          AssetClass = "ETF"
	ETN          AssetClass = "ETN"
	CEF          AssetClass = "CEF"
	MutualFund   AssetClass = "MF"
	ADRC         AssetClass = "ADRC"
	UnknownAsset AssetClass = "Unknown"
)

// Dataset table names tracked by watermarks.
const (
	EodTable                 = "eod"
	FinancialStatementsTable = "financial_statements"
)

// ValidTable reports whether tableName is a dataset table tracked by
// watermarks.
func ValidTable(tableName string) bool {
	switch tableName {
	case EodTable, FinancialStatementsTable:
		return true
	}

	return false
}
