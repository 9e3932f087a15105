package extraction

import "github.com/shopspring/decimal"

// DefaultVendor is reported when no vendor line could be recognized
const DefaultVendor = "Unknown Vendor"

// DefaultCurrency is the currency attached to every receipt extraction
const DefaultCurrency = "INR"

// TransactionType tells whether money entered or left the account
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// ProcessingStatus is the outcome of a single receipt extraction
type ProcessingStatus string

const (
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
)

// Table is a grid of cell strings as produced by a table extractor.
// The first row may or may not be a header.
type Table [][]string

// Transaction is a single statement line.
// Amount is always non-negative; the direction lives in TransactionType.
type Transaction struct {
	Date            string              `json:"date"` // YYYY-MM-DD
	Description     string              `json:"description"`
	Amount          decimal.Decimal     `json:"amount"`
	Balance         decimal.NullDecimal `json:"balance"`
	TransactionType TransactionType     `json:"transaction_type"`
	Category        *string             `json:"category"`
}

// AccountInfo holds the statement header fields recovered from free text
type AccountInfo struct {
	AccountNumber   *string             `json:"account_number"`
	AccountHolder   *string             `json:"account_holder"`
	StatementPeriod *string             `json:"statement_period"`
	OpeningBalance  decimal.NullDecimal `json:"opening_balance"`
	ClosingBalance  decimal.NullDecimal `json:"closing_balance"`
}

// ParsedStatement is the full ledger reconstructed from a bank statement
type ParsedStatement struct {
	AccountNumber    *string             `json:"account_number"`
	AccountHolder    *string             `json:"account_holder"`
	StatementPeriod  *string             `json:"statement_period"`
	OpeningBalance   decimal.NullDecimal `json:"opening_balance"`
	ClosingBalance   decimal.NullDecimal `json:"closing_balance"`
	Transactions     []Transaction       `json:"transactions"`
	TotalCredits     decimal.Decimal     `json:"total_credits"`
	TotalDebits      decimal.Decimal     `json:"total_debits"`
	TransactionCount int                 `json:"transaction_count"`
}

// ReceiptExtraction is the summary recovered from a single receipt
type ReceiptExtraction struct {
	RawText          string              `json:"raw_text"`
	Amount           decimal.NullDecimal `json:"amount"`
	Date             *string             `json:"date"`
	Vendor           string              `json:"vendor"`
	Currency         string              `json:"currency"`
	ProcessingStatus ProcessingStatus    `json:"processing_status"`
	ConfidenceScore  decimal.Decimal     `json:"confidence_score"`
	Error            *string             `json:"error,omitempty"`
}

// TableReport describes what happened to one input table
type TableReport struct {
	Index        int       `json:"index"`
	Accepted     bool      `json:"accepted"`
	Reason       string    `json:"reason,omitempty"`
	Columns      ColumnMap `json:"columns"`
	RowsAccepted int       `json:"rows_accepted"`
	RowsRejected int       `json:"rows_rejected"`
}

// Diagnostics lists everything the statement pipeline skipped, for the caller to log or report
type Diagnostics struct {
	MissingFields []string      `json:"missing_fields,omitempty"`
	Tables        []TableReport `json:"tables,omitempty"`
}

func stringPtr(s string) *string {
	return &s
}
