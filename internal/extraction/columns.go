package extraction

import (
	"fmt"
	"strings"
)

// ColumnRole is the semantic meaning of a statement table column
type ColumnRole int

const (
	RoleDate ColumnRole = iota
	RoleDescription
	RoleCredit
	RoleDebit
	RoleAmount
	RoleBalance
)

// roleKeywords is in precedence order: a header cell takes the first role
// whose keyword it contains and which no earlier column has claimed.
var roleKeywords = []struct {
	role     ColumnRole
	keywords []string
}{
	{RoleDate, []string{"date"}},
	{RoleDescription, []string{"description", "particulars", "details"}},
	{RoleCredit, []string{"credit", "deposit"}},
	{RoleDebit, []string{"debit", "withdrawal"}},
	{RoleAmount, []string{"amount"}},
	{RoleBalance, []string{"balance", "bal"}},
}

// ColumnMap holds the column index of every role, -1 when absent
type ColumnMap struct {
	Date        int `json:"date"`
	Description int `json:"description"`
	Credit      int `json:"credit"`
	Debit       int `json:"debit"`
	Amount      int `json:"amount"`
	Balance     int `json:"balance"`
}

func emptyColumnMap() ColumnMap {
	return ColumnMap{Date: -1, Description: -1, Credit: -1, Debit: -1, Amount: -1, Balance: -1}
}

func (m *ColumnMap) index(role ColumnRole) *int {
	switch role {
	case RoleDate:
		return &m.Date
	case RoleDescription:
		return &m.Description
	case RoleCredit:
		return &m.Credit
	case RoleDebit:
		return &m.Debit
	case RoleAmount:
		return &m.Amount
	default:
		return &m.Balance
	}
}

// MaxIndex is the highest mapped column; rows must be longer than this
func (m ColumnMap) MaxIndex() int {
	highest := -1
	for _, idx := range []int{m.Date, m.Description, m.Credit, m.Debit, m.Amount, m.Balance} {
		if idx > highest {
			highest = idx
		}
	}
	return highest
}

// MapColumns assigns roles to header cells. It returns an error wrapping
// ErrTableRejected when the header cannot yield transactions: no date, no
// description, or none of credit, debit and generic amount.
func MapColumns(header []string) (ColumnMap, error) {
	cols := emptyColumnMap()
	lowered := make([]string, len(header))
	hasDirectional := false
	for i, cell := range header {
		lowered[i] = strings.ToLower(strings.TrimSpace(cell))
		if containsAny(lowered[i], "credit", "deposit", "debit", "withdrawal") {
			hasDirectional = true
		}
	}

	for i, cell := range lowered {
		if cell == "" {
			continue
		}
		for _, rk := range roleKeywords {
			if rk.role == RoleAmount && hasDirectional {
				continue
			}
			slot := cols.index(rk.role)
			if *slot != -1 || !containsAny(cell, rk.keywords...) {
				continue
			}
			*slot = i
			break
		}
	}

	switch {
	case cols.Date == -1:
		return cols, fmt.Errorf("%w: no date column", ErrTableRejected)
	case cols.Description == -1:
		return cols, fmt.Errorf("%w: no description column", ErrTableRejected)
	case cols.Credit == -1 && cols.Debit == -1 && cols.Amount == -1:
		return cols, fmt.Errorf("%w: no credit, debit or amount column", ErrTableRejected)
	}
	return cols, nil
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
