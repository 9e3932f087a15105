package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	creditWords = regexp.MustCompile(`(?i)\b(?:cr|credit\w*|deposit\w*|salary|sal|interest|refund\w*|received)\b`)
	debitWords  = regexp.MustCompile(`(?i)\b(?:dr|debit\w*|withdrawal\w*|payment\w*|charges?|fees?|paid)\b`)
)

// ReconstructTransactions walks every table, maps its header and turns each
// usable data row into a Transaction. Rejected tables and rows are counted in
// the returned reports and never abort the remaining work.
func ReconstructTransactions(tables []Table) ([]Transaction, []TableReport) {
	transactions := make([]Transaction, 0)
	reports := make([]TableReport, 0, len(tables))

	for i, table := range tables {
		report := TableReport{Index: i, Columns: emptyColumnMap()}
		if len(table) == 0 {
			report.Reason = "empty table"
			reports = append(reports, report)
			continue
		}

		cols, err := MapColumns(table[0])
		report.Columns = cols
		if err != nil {
			report.Reason = err.Error()
			reports = append(reports, report)
			continue
		}
		report.Accepted = true

		for _, row := range table[1:] {
			txn, ok := buildTransaction(row, cols)
			if !ok {
				report.RowsRejected++
				continue
			}
			report.RowsAccepted++
			transactions = append(transactions, txn)
		}
		reports = append(reports, report)
	}

	return transactions, reports
}

func buildTransaction(row []string, cols ColumnMap) (Transaction, bool) {
	if len(row) <= cols.MaxIndex() {
		return Transaction{}, false
	}

	date, ok := FindDate(row[cols.Date])
	if !ok {
		return Transaction{}, false
	}

	amount, txnType, ok := resolveAmount(row, cols)
	if !ok || amount.IsZero() {
		return Transaction{}, false
	}

	txn := Transaction{
		Date:            date,
		Description:     strings.Join(strings.Fields(row[cols.Description]), " "),
		Amount:          amount.Abs(),
		TransactionType: txnType,
	}
	if cols.Balance != -1 {
		if balance, ok := ParseAmount(row[cols.Balance]); ok {
			txn.Balance = decimal.NewNullDecimal(balance)
		}
	}
	return txn, true
}

// resolveAmount applies credit, then debit, then generic amount. A zero in a
// credit or debit cell counts as empty so the other column gets its turn.
func resolveAmount(row []string, cols ColumnMap) (decimal.Decimal, TransactionType, bool) {
	if amount, ok := nonZeroCell(row, cols.Credit); ok {
		return amount, Credit, true
	}
	if amount, ok := nonZeroCell(row, cols.Debit); ok {
		return amount, Debit, true
	}
	if cols.Amount != -1 {
		if amount, ok := ParseAmount(row[cols.Amount]); ok {
			return amount, ClassifyRow(row, amount), true
		}
	}
	return decimal.Zero, "", false
}

func nonZeroCell(row []string, idx int) (decimal.Decimal, bool) {
	if idx == -1 {
		return decimal.Zero, false
	}
	amount, ok := ParseAmount(row[idx])
	if !ok || amount.IsZero() {
		return decimal.Zero, false
	}
	return amount, true
}

// ClassifyRow decides the direction of a single signed amount column from the
// words in the row. When neither or both keyword sets match, the sign decides.
func ClassifyRow(row []string, amount decimal.Decimal) TransactionType {
	text := strings.Join(row, " ")
	isCredit := creditWords.MatchString(text)
	isDebit := debitWords.MatchString(text)

	switch {
	case isCredit && !isDebit:
		return Credit
	case isDebit && !isCredit:
		return Debit
	case amount.IsNegative():
		return Debit
	default:
		return Credit
	}
}
