package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("cleanTranscript", func() {
	var (
		input  string
		output string
	)

	JustBeforeEach(func() {
		output = cleanTranscript(input)
	})

	When("the transcript is plain text", func() {
		BeforeEach(func() {
			input = "  SuperMart Store\nTOTAL: $45.67  \n"
		})

		It("should trim surrounding and trailing whitespace", func() {
			Expect(output).To(Equal("SuperMart Store\nTOTAL: $45.67"))
		})
	})

	When("the transcript is wrapped in a code block", func() {
		BeforeEach(func() {
			input = "```text\nSuperMart Store\nTOTAL: $45.67\n```"
		})

		It("should remove the fences", func() {
			Expect(output).To(Equal("SuperMart Store\nTOTAL: $45.67"))
		})
	})

	When("the code block has no language tag", func() {
		BeforeEach(func() {
			input = "```\nCorner Cafe\n```"
		})

		It("should remove the fences", func() {
			Expect(output).To(Equal("Corner Cafe"))
		})
	})

	When("the lines carry column gaps", func() {
		BeforeEach(func() {
			input = "Milk  45.00\r\nBread  30.00"
		})

		It("should keep the inner spacing", func() {
			Expect(output).To(Equal("Milk  45.00\nBread  30.00"))
		})
	})

	When("the transcript is empty", func() {
		BeforeEach(func() {
			input = "   "
		})

		It("should return an empty string", func() {
			Expect(output).To(BeEmpty())
		})
	})
})
