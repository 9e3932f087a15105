package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	It("should build an Ollama scanner", func() {
		scanner, err := New(Config{Type: "ollama", OllamaURL: "http://ollama:11434"})
		Expect(err).NotTo(HaveOccurred())
		Expect(scanner).To(BeAssignableToTypeOf(&Ollama{}))
		Expect(scanner.(*Ollama).model).To(Equal("llava"))
	})

	It("should return no scanner for none", func() {
		scanner, err := New(Config{Type: "none"})
		Expect(err).NotTo(HaveOccurred())
		Expect(scanner).To(BeNil())
	})

	It("should require a Gemini key", func() {
		_, err := New(Config{Type: "gemini"})
		Expect(err).To(MatchError(ContainSubstring("api key")))
	})

	It("should reject unknown types", func() {
		_, err := New(Config{Type: "tesseract"})
		Expect(err).To(MatchError(ContainSubstring("unknown scanner type")))
	})
})
