package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const balanceToken = `([-(]?(?:[$₹€£¥]\s*)?\d[\d,]*(?:\.\d{1,2})?\)?)`

var (
	accountNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:account|a/c|acct)\.?\s*(?:no\.?|number|#)?\s*[:\-]?\s*(\d{9,18})\b`),
	}

	accountHolderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)account\s+holder(?:\s+name)?[ \t]*[:\-]?[ \t]*([A-Za-z][A-Za-z .]*)`),
		regexp.MustCompile(`(?i)customer\s+name[ \t]*[:\-]?[ \t]*([A-Za-z][A-Za-z .]*)`),
		regexp.MustCompile(`(?i)\bname[ \t]*[:\-]?[ \t]*([A-Za-z][A-Za-z .]*)`),
	}

	periodRangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:statement\s+period|period|from)[ \t]*[:\-]?[ \t]*(.+?)\s+(?:to|till|until|-)\s+([^\n]+)`),
	}

	periodSpanPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)statement\s+period[ \t]*[:\-]?[ \t]*([^\n]+)`),
	}

	openingBalancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)opening\s+bal(?:ance|\.)?[:\-\s]*?` + balanceToken),
	}

	closingBalancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)closing\s+bal(?:ance|\.)?[:\-\s]*?` + balanceToken),
	}

	multiSpace = regexp.MustCompile(`\s+`)
)

// ExtractAccountInfo recovers statement header fields from free text.
// Each field has its own ordered cascade and stops at the first usable match;
// fields that never match are left nil.
func ExtractAccountInfo(text string) AccountInfo {
	var info AccountInfo

	if number, ok := firstCapture(accountNumberPatterns, text, keepNonEmpty); ok {
		info.AccountNumber = stringPtr(number)
	}
	if holder, ok := firstCapture(accountHolderPatterns, text, cleanHolderName); ok {
		info.AccountHolder = stringPtr(holder)
	}
	if period, ok := findStatementPeriod(text); ok {
		info.StatementPeriod = stringPtr(period)
	}
	if balance, ok := findBalance(openingBalancePatterns, text); ok {
		info.OpeningBalance = decimal.NewNullDecimal(balance)
	}
	if balance, ok := findBalance(closingBalancePatterns, text); ok {
		info.ClosingBalance = decimal.NewNullDecimal(balance)
	}
	return info
}

// firstCapture returns the first capture that clean accepts
func firstCapture(patterns []*regexp.Regexp, text string, clean func(string) (string, bool)) (string, bool) {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if value, ok := clean(match[1]); ok {
			return value, true
		}
	}
	return "", false
}

func keepNonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

func cleanHolderName(s string) (string, bool) {
	name := strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
	name = strings.TrimRight(name, ". ")
	return name, len(name) > 2
}

// findStatementPeriod prefers a "from X to Y" range whose ends both normalize,
// and falls back to the free text after "Statement Period".
func findStatementPeriod(text string) (string, bool) {
	for _, pattern := range periodRangePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			start, startOK := FindDate(match[1])
			end, endOK := FindDate(match[2])
			if startOK && endOK {
				return start + " to " + end, true
			}
		}
	}
	return firstCapture(periodSpanPatterns, text, keepNonEmpty)
}

func findBalance(patterns []*regexp.Regexp, text string) (decimal.Decimal, bool) {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if amount, ok := ParseAmount(match[1]); ok {
			return amount, true
		}
	}
	return decimal.Zero, false
}
