package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/heic"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// maxImageDimension bounds the longest side of an image sent for OCR
const maxImageDimension = 2400

// transcriptionPrompt is the shared prompt used by all LLM providers
const transcriptionPrompt = `Transcribe all of the text in this receipt or invoice image exactly as it is printed.

Rules:
- Keep the original line order, one printed line per output line
- Keep numbers, currency symbols, dates and punctuation exactly as shown
- When a line has separate columns (item and price, label and value), separate them with two spaces
- Do not summarize, translate, correct or reformat anything
- Do not add any commentary before or after the text
- Do not use markdown code blocks`

// imageToPNG decodes any supported image, shrinks it if needed and re-encodes it as PNG
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	img, err := decodeImage(imageData, mimeType)
	if err != nil {
		return nil, err
	}
	return encodePNG(downscale(img))
}

func decodeImage(imageData []byte, mimeType string) (image.Image, error) {
	// Go's standard image package doesn't support HEIC (common on iPhones)
	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		img, err := heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") {
			return nil, fmt.Errorf("%w: supported images are JPEG, PNG, GIF, WebP, HEIC and HEIF: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// downscale shrinks img so its longest side is at most maxImageDimension
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	longest := max(bounds.Dx(), bounds.Dy())
	if longest <= maxImageDimension {
		return img
	}

	scale := float64(maxImageDimension) / float64(longest)
	width := max(1, int(float64(bounds.Dx())*scale))
	height := max(1, int(float64(bounds.Dy())*scale))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICFormat checks if the image data is in HEIC/HEIF format
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	// ftyp box at offset 4 followed by a HEIC-related brand
	if string(data[4:8]) == "ftyp" {
		brand := string(data[8:12])
		if brand == "heic" || brand == "heix" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// needsConversion reports whether a PNG can be passed through untouched
func needsConversion(imageData []byte, mimeType string) bool {
	if mimeType != "image/png" || isHEICFormat(imageData) {
		return true
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return true
	}
	return max(cfg.Width, cfg.Height) > maxImageDimension
}

// convertToPNG converts PDFs, oversized images and non-PNG images to PNG format
// Returns the PNG data and a boolean indicating if conversion occurred
func convertToPNG(imageData []byte, mimeType string) ([]byte, bool, error) {
	if mimeType == "application/pdf" {
		pngData, err := pdfPageToPNG(imageData, 0)
		if err != nil {
			return nil, false, fmt.Errorf("converting PDF to image: %w", err)
		}
		return pngData, true, nil
	}
	if needsConversion(imageData, mimeType) {
		pngData, err := imageToPNG(imageData, mimeType)
		if err != nil {
			return nil, false, fmt.Errorf("converting image to PNG: %w", err)
		}
		return pngData, true, nil
	}
	return imageData, false, nil
}

// prepareImageData normalizes the MIME type and converts the image to PNG if needed
// Returns the final image data, the MIME type to use, and whether conversion occurred
func prepareImageData(imageData []byte, contentType string) ([]byte, string, bool, error) {
	mimeType := normalizeContentType(contentType)
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	finalImageData, converted, err := convertToPNG(imageData, mimeType)
	if err != nil {
		return nil, "", false, err
	}

	// Everything leaving here is PNG
	return finalImageData, "image/png", converted, nil
}

// normalizeContentType lowercases a content type and drops any parameters
func normalizeContentType(contentType string) string {
	mimeType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}
