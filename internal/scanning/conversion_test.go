package scanning

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Image conversion", func() {
	Describe("isHEICFormat", func() {
		It("should detect the ftyp heic brand", func() {
			data := append([]byte{0, 0, 0, 24}, []byte("ftypheic0000")...)
			Expect(isHEICFormat(data)).To(BeTrue())
		})

		It("should reject short data", func() {
			Expect(isHEICFormat([]byte("ftyp"))).To(BeFalse())
		})

		It("should reject other formats", func() {
			Expect(isHEICFormat(testPNG(4, 4))).To(BeFalse())
		})
	})

	Describe("isHEICMimeType", func() {
		It("should match heic and heif types in any case", func() {
			Expect(isHEICMimeType(" Image/HEIC ")).To(BeTrue())
			Expect(isHEICMimeType("image/heif")).To(BeTrue())
			Expect(isHEICMimeType("image/png")).To(BeFalse())
		})
	})

	Describe("downscale", func() {
		It("should shrink the longest side to the limit", func() {
			img := downscale(image.NewRGBA(image.Rect(0, 0, 3000, 1500)))
			Expect(img.Bounds().Dx()).To(Equal(2400))
			Expect(img.Bounds().Dy()).To(Equal(1200))
		})

		It("should leave small images alone", func() {
			src := image.NewRGBA(image.Rect(0, 0, 800, 600))
			Expect(downscale(src)).To(BeIdenticalTo(src))
		})
	})

	Describe("prepareImageData", func() {
		var (
			input       []byte
			contentType string
			output      []byte
			mimeType    string
			converted   bool
			err         error
		)

		JustBeforeEach(func() {
			output, mimeType, converted, err = prepareImageData(input, contentType)
		})

		When("the image is a small PNG", func() {
			BeforeEach(func() {
				input = testPNG(10, 10)
				contentType = "image/png"
			})

			It("should pass it through", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(converted).To(BeFalse())
				Expect(output).To(Equal(input))
				Expect(mimeType).To(Equal("image/png"))
			})
		})

		When("the image is a JPEG", func() {
			BeforeEach(func() {
				var buf bytes.Buffer
				Expect(jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 10)), nil)).To(Succeed())
				input = buf.Bytes()
				contentType = "image/jpeg; charset=binary"
			})

			It("should convert it to PNG", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(converted).To(BeTrue())
				cfg, err := png.DecodeConfig(bytes.NewReader(output))
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Width).To(Equal(20))
			})
		})

		When("the PNG is too large", func() {
			BeforeEach(func() {
				input = testPNG(2600, 100)
				contentType = "image/png"
			})

			It("should shrink it", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(converted).To(BeTrue())
				cfg, err := png.DecodeConfig(bytes.NewReader(output))
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Width).To(Equal(2400))
			})
		})

		When("the data is not an image", func() {
			BeforeEach(func() {
				input = []byte("definitely not an image")
				contentType = "image/jpeg"
			})

			It("should return an unsupported format error", func() {
				Expect(err).To(MatchError(ErrUnsupportedFormat))
			})
		})

		When("the document is a PDF", func() {
			BeforeEach(func() {
				input = buildPDF([]pdfLine{{50, 700, "Corner Cafe"}})
				contentType = "application/pdf"
			})

			It("should render the first page", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(converted).To(BeTrue())
				_, err := png.DecodeConfig(bytes.NewReader(output))
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})
})
