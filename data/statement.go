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
	"time"

	"github.com/rs/zerolog/log"
)

// FinancialStatement is one reported fiscal period for a symbol. The
// report period end-date is what advances the fiscal watermark for the
// financial_statements table.
type FinancialStatement struct {
	SymbolID int64 `db:"symbol_id"`

	// ReportPeriod is the end date of the fiscal period, normalized to a
	// calendar quarter boundary.
	ReportPeriod time.Time `db:"report_period"`

	// FiledOn is the SEC filing date for the period.
	FiledOn time.Time `db:"filed_on"`

	Revenues                  int64   `db:"revenues"`
	CostOfRevenue             int64   `db:"cost_of_revenue"`
	GrossProfit               int64   `db:"gross_profit"`
	OperatingExpenses         int64   `db:"operating_expenses"`
	OperatingIncome           int64   `db:"operating_income"`
	NetIncome                 int64   `db:"net_income"`
	EPS                       float64 `db:"eps"`
	EPSDiluted                float64 `db:"eps_diluted"`
	TotalAssets               int64   `db:"total_assets"`
	TotalLiabilities          int64   `db:"total_liabilities"`
	Equity                    int64   `db:"equity"`
	TotalDebt                 int64   `db:"total_debt"`
	CashAndEquivalents        int64   `db:"cash_and_equivalents"`
	NetCashFlowFromOperations int64   `db:"net_cash_flow_from_operations"`
	CapitalExpenditure        int64   `db:"capital_expenditure"`
	FreeCashFlow              int64   `db:"free_cash_flow"`
	SharesBasic               int64   `db:"shares_basic"`

	LastUpdated time.Time `db:"last_updated"`
}

func (statement *FinancialStatement) SaveDB(ctx context.Context, dbConn Execer) error {
	sql := `INSERT INTO financial_statements (
		"symbol_id",
		"report_period",
		"filed_on",
		"revenues",
		"cost_of_revenue",
		"gross_profit",
		"operating_expenses",
		"operating_income",
		"net_income",
		"eps",
		"eps_diluted",
		"total_assets",
		"total_liabilities",
		"equity",
		"total_debt",
		"cash_and_equivalents",
		"net_cash_flow_from_operations",
		"capital_expenditure",
		"free_cash_flow",
		"shares_basic",
		"last_updated"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, now()
	) ON CONFLICT ON CONSTRAINT financial_statements_pkey
	DO UPDATE SET
		filed_on = EXCLUDED.filed_on,
		revenues = EXCLUDED.revenues,
		cost_of_revenue = EXCLUDED.cost_of_revenue,
		gross_profit = EXCLUDED.gross_profit,
		operating_expenses = EXCLUDED.operating_expenses,
		operating_income = EXCLUDED.operating_income,
		net_income = EXCLUDED.net_income,
		eps = EXCLUDED.eps,
		eps_diluted = EXCLUDED.eps_diluted,
		total_assets = EXCLUDED.total_assets,
		total_liabilities = EXCLUDED.total_liabilities,
		equity = EXCLUDED.equity,
		total_debt = EXCLUDED.total_debt,
		cash_and_equivalents = EXCLUDED.cash_and_equivalents,
		net_cash_flow_from_operations = EXCLUDED.net_cash_flow_from_operations,
		capital_expenditure = EXCLUDED.capital_expenditure,
		free_cash_flow = EXCLUDED.free_cash_flow,
		shares_basic = EXCLUDED.shares_basic,
		last_updated = now();`

	_, err := dbConn.Exec(ctx, sql, statement.SymbolID, statement.ReportPeriod,
		statement.FiledOn, statement.Revenues, statement.CostOfRevenue,
		statement.GrossProfit, statement.OperatingExpenses, statement.OperatingIncome,
		statement.NetIncome, statement.EPS, statement.EPSDiluted, statement.TotalAssets,
		statement.TotalLiabilities, statement.Equity, statement.TotalDebt,
		statement.CashAndEquivalents, statement.NetCashFlowFromOperations,
		statement.CapitalExpenditure, statement.FreeCashFlow, statement.SharesBasic)
	if err != nil {
		log.Error().Err(err).Int64("SymbolID", statement.SymbolID).
			Time("ReportPeriod", statement.ReportPeriod).Msg("save financial statement to DB failed")
	}

	return err
}
