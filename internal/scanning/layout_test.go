package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/cashmate/internal/extraction"
)

// word splits s into 6pt wide, 10pt high glyphs the way a content stream does
func word(x, y float64, s string) []glyph {
	var glyphs []glyph
	for i, r := range s {
		glyphs = append(glyphs, glyph{X: x + float64(i)*6, Y: y, W: 6, Size: 10, S: string(r)})
	}
	return glyphs
}

func glyphsOf(words ...[]glyph) []glyph {
	var all []glyph
	for _, w := range words {
		all = append(all, w...)
	}
	return all
}

var _ = Describe("PDF layout", func() {
	Describe("groupLines", func() {
		It("should order lines top to bottom and split cells on wide gaps", func() {
			lines := groupLines(glyphsOf(
				word(50, 680, "Total"), word(200, 680, "45.67"),
				word(50, 700, "Corner Cafe"),
			))

			Expect(lines).To(HaveLen(2))
			Expect(lines[0].String()).To(Equal("Corner Cafe"))
			Expect(lines[1].cells).To(HaveLen(2))
			Expect(lines[1].String()).To(Equal("Total  45.67"))
		})

		It("should tolerate small baseline jitter", func() {
			lines := groupLines(glyphsOf(word(50, 700, "Date"), word(150, 701.5, "Description")))
			Expect(lines).To(HaveLen(1))
			Expect(lines[0].cells).To(HaveLen(2))
		})

		It("should restore word spaces from the glyph positions", func() {
			glyphs := glyphsOf(word(50, 700, "Salary"), word(92, 700, "Credit"))
			lines := groupLines(glyphs)
			Expect(lines[0].String()).To(Equal("Salary Credit"))
		})
	})

	Describe("detectTables", func() {
		var tables []extraction.Table

		JustBeforeEach(func() {
			tables = detectTables(groupLines(glyphsOf(
				word(50, 760, "Account Number: 123456789012"),
				word(50, 740, "Branch:"), word(150, 740, "MG Road"),
				word(50, 700, "Date"), word(150, 700, "Description"), word(300, 700, "Credit"), word(380, 700, "Debit"), word(460, 700, "Balance"),
				word(50, 685, "01/06/2023"), word(150, 685, "Salary"), word(300, 685, "50000.00"), word(460, 685, "150000.00"),
				word(50, 670, "03/06/2023"), word(150, 670, "Electricity bill"), word(380, 670, "1,200.50"), word(460, 670, "148799.50"),
				word(50, 640, "Closing Balance: 148799.50"),
			)))
		})

		It("should find a single table", func() {
			Expect(tables).To(HaveLen(1))
		})

		It("should start the table at the widest line", func() {
			Expect(tables[0][0]).To(Equal([]string{"Date", "Description", "Credit", "Debit", "Balance"}))
		})

		It("should align cells under their header columns", func() {
			Expect(tables[0][1]).To(Equal([]string{"01/06/2023", "Salary", "50000.00", "", "150000.00"}))
			Expect(tables[0][2]).To(Equal([]string{"03/06/2023", "Electricity bill", "", "1,200.50", "148799.50"}))
		})

		It("should produce a table the transaction reconstructor accepts", func() {
			txns, reports := extraction.ReconstructTransactions(tables)
			Expect(reports[0].Accepted).To(BeTrue())
			Expect(txns).To(HaveLen(2))
			Expect(txns[1].TransactionType).To(Equal(extraction.Debit))
		})
	})

	It("should ignore a lone multi-cell line", func() {
		tables := detectTables(groupLines(glyphsOf(word(50, 700, "Page"), word(300, 700, "1 of 2"))))
		Expect(tables).To(BeEmpty())
	})
})
