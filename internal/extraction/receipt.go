package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	vendorScanLines = 8
	vendorMaxLength = 100
	amountNumber    = `(\d{1,3}(?:,\d{3})+(?:\.\d{2})?|\d+(?:\.\d{2})?)`
)

var (
	minReceiptAmount = decimal.RequireFromString("0.01")
	maxReceiptAmount = decimal.RequireFromString("100000.00")
)

// amountTemplates are anchored on a total-like keyword or a currency marker
var amountTemplates = []*regexp.Regexp{
	regexp.MustCompile(`(?:grand total|subtotal|total|amount|sum|bill)[\s:]*[$₹€]?\s*` + amountNumber),
	regexp.MustCompile(`[$₹€]\s*` + amountNumber),
	regexp.MustCompile(amountNumber + `[ \t]*(?:total|amount)`),
	regexp.MustCompile(`(?:rs\.?|inr)\s*` + amountNumber),
}

var (
	vendorSkip     = regexp.MustCompile(`tel|phone|fax|gstin|vat|invoice|bill|receipt|date|time`)
	yearRun        = regexp.MustCompile(`\d{4}`)
	vendorShape    = regexp.MustCompile(`^[A-Z][a-zA-Z\s&.-]{3,}(?:\s(?:ltd|inc|pvt|corp|co)\.?)?$`)
	vendorDecor    = regexp.MustCompile(`[()*#]`)
	columnGap      = regexp.MustCompile(`\s{2,}|\t`)
	vendorKeywords = []string{
		"store", "shop", "mart", "restaurant", "cafe", "company",
		"ltd", "inc", "corp", "pvt", "co", "supermarket",
	}
)

// ExtractReceipt recovers amount, date and vendor from OCR text and scores the result.
// Blank text yields a failed extraction rather than an empty completed one.
func ExtractReceipt(text string) ReceiptExtraction {
	if strings.TrimSpace(text) == "" {
		failed := FailedReceipt(ErrNoContent)
		failed.RawText = text
		return failed
	}

	amount, amountFound := FindAmount(text)
	date, dateFound := FindDate(text)
	vendor := FindVendor(text)

	result := ReceiptExtraction{
		RawText:          text,
		Vendor:           vendor,
		Currency:         DefaultCurrency,
		ProcessingStatus: StatusCompleted,
		ConfidenceScore:  ConfidenceScore(amountFound, dateFound, VendorRecognized(vendor)),
	}
	if amountFound {
		result.Amount = decimal.NewNullDecimal(amount)
	}
	if dateFound {
		result.Date = &date
	}
	return result
}

// FailedReceipt builds the failure variant for a document whose text could not be read
func FailedReceipt(err error) ReceiptExtraction {
	msg := "extraction failed"
	if err != nil {
		msg = err.Error()
	}
	return ReceiptExtraction{
		Vendor:           DefaultVendor,
		Currency:         DefaultCurrency,
		ProcessingStatus: StatusFailed,
		ConfidenceScore:  decimal.Zero,
		Error:            &msg,
	}
}

// FindAmount returns the largest plausible amount found next to a total-like keyword
// or currency marker.
func FindAmount(text string) (decimal.Decimal, bool) {
	lower := strings.ToLower(text)

	var candidates []decimal.Decimal
	for _, template := range amountTemplates {
		for _, match := range template.FindAllStringSubmatch(lower, -1) {
			amount, ok := ParseAmount(match[1])
			if !ok || amount.LessThan(minReceiptAmount) || amount.GreaterThan(maxReceiptAmount) {
				continue
			}
			candidates = append(candidates, amount)
		}
	}

	if len(candidates) == 0 {
		return decimal.Zero, false
	}
	return decimal.Max(candidates[0], candidates[1:]...), true
}

// FindVendor picks the merchant name from the top of the receipt.
// OCR often joins columns with wide gaps, so each line is split on runs of spaces first.
func FindVendor(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > vendorScanLines {
		lines = lines[:vendorScanLines]
	}

	for _, line := range lines {
		for _, segment := range columnGap.Split(strings.TrimSpace(line), -1) {
			segment = strings.TrimSpace(segment)
			if isVendorCandidate(segment) {
				return cleanVendor(segment)
			}
		}
	}
	return DefaultVendor
}

func isVendorCandidate(segment string) bool {
	if len(segment) <= 5 || yearRun.MatchString(segment) {
		return false
	}
	lower := strings.ToLower(segment)
	if vendorSkip.MatchString(lower) {
		return false
	}
	for _, keyword := range vendorKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return vendorShape.MatchString(segment)
}

func cleanVendor(segment string) string {
	vendor := []rune(strings.TrimSpace(vendorDecor.ReplaceAllString(segment, "")))
	if len(vendor) > vendorMaxLength {
		vendor = vendor[:vendorMaxLength]
	}
	return string(vendor)
}

// VendorRecognized reports whether a vendor counts toward the confidence score
func VendorRecognized(vendor string) bool {
	return vendor != "" && vendor != DefaultVendor && len(vendor) > 3
}

// ConfidenceScore weighs the recovered fields: amount 40, date 30, vendor 30.
func ConfidenceScore(amountFound, dateFound, vendorFound bool) decimal.Decimal {
	score := decimal.Zero
	if amountFound {
		score = score.Add(decimal.NewFromInt(40))
	}
	if dateFound {
		score = score.Add(decimal.NewFromInt(30))
	}
	if vendorFound {
		score = score.Add(decimal.NewFromInt(30))
	}
	return score.Round(2)
}
