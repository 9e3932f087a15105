package extraction

import (
	"github.com/shopspring/decimal"
)

// Summarize totals the transactions by direction and merges in the account header
func Summarize(info AccountInfo, transactions []Transaction) ParsedStatement {
	credits, debits := decimal.Zero, decimal.Zero
	for _, txn := range transactions {
		switch txn.TransactionType {
		case Credit:
			credits = credits.Add(txn.Amount)
		case Debit:
			debits = debits.Add(txn.Amount)
		}
	}

	if transactions == nil {
		transactions = []Transaction{}
	}

	return ParsedStatement{
		AccountNumber:    info.AccountNumber,
		AccountHolder:    info.AccountHolder,
		StatementPeriod:  info.StatementPeriod,
		OpeningBalance:   info.OpeningBalance,
		ClosingBalance:   info.ClosingBalance,
		Transactions:     transactions,
		TotalCredits:     credits.Round(2),
		TotalDebits:      debits.Round(2),
		TransactionCount: len(transactions),
	}
}
