package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractAccountInfo", func() {
	It("recovers a full statement header", func() {
		text := `STATE BANK OF EXAMPLE
Account Holder: Priya Sharma
Account Number: 123456789012
Statement Period: 01/04/2023 to 30/04/2023
Opening Balance: 1,00,000.00
Closing Balance: ₹ 1,45,500.50`

		info := ExtractAccountInfo(text)

		Expect(*info.AccountNumber).To(Equal("123456789012"))
		Expect(*info.AccountHolder).To(Equal("Priya Sharma"))
		Expect(*info.StatementPeriod).To(Equal("2023-04-01 to 2023-04-30"))
		Expect(info.OpeningBalance.Valid).To(BeTrue())
		Expect(info.OpeningBalance.Decimal).To(equalDecimal("100000.00"))
		Expect(info.ClosingBalance.Valid).To(BeTrue())
		Expect(info.ClosingBalance.Decimal).To(equalDecimal("145500.50"))
	})

	It("handles abbreviated labels", func() {
		text := `A/c No. 987654321
Name: RAHUL KUMAR
From 01 Apr 2023 to 30 Apr 2023
Opening Bal: -500.00`

		info := ExtractAccountInfo(text)

		Expect(*info.AccountNumber).To(Equal("987654321"))
		Expect(*info.AccountHolder).To(Equal("RAHUL KUMAR"))
		Expect(*info.StatementPeriod).To(Equal("2023-04-01 to 2023-04-30"))
		Expect(info.OpeningBalance.Decimal).To(equalDecimal("-500"))
		Expect(info.ClosingBalance.Valid).To(BeFalse())
	})

	It("prefers the customer name label over a bare name", func() {
		info := ExtractAccountInfo("Branch Name: MG Road\nCustomer Name: Anita Rao")
		Expect(*info.AccountHolder).To(Equal("Anita Rao"))
	})

	It("falls back to the free-text period when the range does not normalize", func() {
		info := ExtractAccountInfo("Statement Period: 01/04/2023 to sometime")
		Expect(*info.StatementPeriod).To(Equal("01/04/2023 to sometime"))
	})

	It("keeps a month-only period as written", func() {
		info := ExtractAccountInfo("Statement Period: April 2023")
		Expect(*info.StatementPeriod).To(Equal("April 2023"))
	})

	It("keeps a zero balance", func() {
		info := ExtractAccountInfo("Opening Balance: 0.00")
		Expect(info.OpeningBalance.Valid).To(BeTrue())
		Expect(info.OpeningBalance.Decimal.IsZero()).To(BeTrue())
	})

	It("reads parenthesized balances as negative", func() {
		info := ExtractAccountInfo("Closing Balance (1,250.00)")
		Expect(info.ClosingBalance.Decimal).To(equalDecimal("-1250"))
	})

	It("ignores account numbers that are too short", func() {
		info := ExtractAccountInfo("Account No: 12345")
		Expect(info.AccountNumber).To(BeNil())
	})

	It("leaves everything empty when nothing matches", func() {
		info := ExtractAccountInfo("Hello world")

		Expect(info.AccountNumber).To(BeNil())
		Expect(info.AccountHolder).To(BeNil())
		Expect(info.StatementPeriod).To(BeNil())
		Expect(info.OpeningBalance.Valid).To(BeFalse())
		Expect(info.ClosingBalance.Valid).To(BeFalse())
	})
})
