package extraction

import "strings"

// ParseStatement builds the ledger for one statement from its text and tables.
// It fails only when there is nothing at all to work with; missing fields and
// skipped tables are reported through Diagnostics instead.
func ParseStatement(text string, tables []Table) (*ParsedStatement, Diagnostics, error) {
	var diag Diagnostics
	if strings.TrimSpace(text) == "" && len(tables) == 0 {
		return nil, diag, ErrNoContent
	}

	info := ExtractAccountInfo(text)
	diag.MissingFields = missingAccountFields(info)

	transactions, reports := ReconstructTransactions(tables)
	diag.Tables = reports

	statement := Summarize(info, transactions)
	return &statement, diag, nil
}

func missingAccountFields(info AccountInfo) []string {
	var missing []string
	if info.AccountNumber == nil {
		missing = append(missing, "account_number")
	}
	if info.AccountHolder == nil {
		missing = append(missing, "account_holder")
	}
	if info.StatementPeriod == nil {
		missing = append(missing, "statement_period")
	}
	if !info.OpeningBalance.Valid {
		missing = append(missing, "opening_balance")
	}
	if !info.ClosingBalance.Valid {
		missing = append(missing, "closing_balance")
	}
	return missing
}
