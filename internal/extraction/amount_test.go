package extraction

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("ParseAmount", func() {
	DescribeTable("values that normalize",
		func(raw string, expected string) {
			amount, ok := ParseAmount(raw)
			Expect(ok).To(BeTrue())
			Expect(amount).To(equalDecimal(expected))
		},
		Entry("parentheses mean negative", "(1,234.56)", "-1234.56"),
		Entry("dollar sign and separators", "$1,234.56", "1234.56"),
		Entry("leading minus with rupee", "-₹500", "-500"),
		Entry("euro with spaces", "  € 12.50 ", "12.50"),
		Entry("pound", "£99", "99"),
		Entry("yen", "¥1,000", "1000"),
		Entry("indian grouping", "1,00,000.00", "100000.00"),
		Entry("trailing letters", "2,500.00 Cr", "2500.00"),
		Entry("plain integer", "42", "42"),
	)

	DescribeTable("values that do not normalize",
		func(raw string) {
			_, ok := ParseAmount(raw)
			Expect(ok).To(BeFalse())
		},
		Entry("empty", ""),
		Entry("whitespace", "   "),
		Entry("not applicable", "N/A"),
		Entry("only a glyph", "$"),
		Entry("empty parentheses", "()"),
		Entry("two decimal points", "1.2.3"),
		Entry("lone point", "."),
	)

	It("keeps exact decimal precision", func() {
		a, _ := ParseAmount("0.10")
		b, _ := ParseAmount("0.20")
		Expect(a.Add(b)).To(equalDecimal("0.30"))
	})

	When("round-tripping through FormatAmount", func() {
		It("returns the original value", func() {
			rng := rand.New(rand.NewSource(42))
			for i := 0; i < 2000; i++ {
				value := decimal.New(rng.Int63n(200_000_000_000)-100_000_000_000, -2)
				formatted := FormatAmount(value)

				parsed, ok := ParseAmount(formatted)
				Expect(ok).To(BeTrue(), formatted)
				Expect(parsed).To(equalDecimal(value.String()), formatted)

				if !value.IsNegative() {
					withGlyph, ok := ParseAmount("$" + formatted)
					Expect(ok).To(BeTrue())
					Expect(withGlyph).To(equalDecimal(value.String()))
				}
			}
		})
	})
})

var _ = Describe("FormatAmount", func() {
	It("groups thousands", func() {
		Expect(FormatAmount(decimal.RequireFromString("1234567.8"))).To(Equal("1,234,567.80"))
	})

	It("wraps negatives in parentheses", func() {
		Expect(FormatAmount(decimal.RequireFromString("-1234.56"))).To(Equal("(1,234.56)"))
	})

	It("renders zero", func() {
		Expect(FormatAmount(decimal.Zero)).To(Equal("0.00"))
	})
})
