package scanning

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/zombor/cashmate/internal/extraction"
)

// Gaps are measured in multiples of the font size
const (
	lineTolerance = 0.4
	wordGap       = 0.15
	cellGap       = 1.0
	minTableCells = 2
)

// glyph is one positioned piece of text from a PDF content stream.
// Y grows upward, as in PDF user space.
type glyph struct {
	X, Y, W, Size float64
	S             string
}

type cell struct {
	text   string
	x0, x1 float64
}

type textLine struct {
	y     float64
	cells []cell
}

func (l textLine) String() string {
	texts := make([]string, len(l.cells))
	for i, c := range l.cells {
		texts[i] = c.text
	}
	return strings.Join(texts, "  ")
}

// pdfLayout reads the positioned text of every page and rebuilds lines and tables.
// The glyph count lets the caller tell a scanned PDF from an empty one.
func pdfLayout(pdfData []byte) (content *StatementContent, glyphs int, err error) {
	// the PDF interpreter panics on malformed content streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: parsing PDF: %v", ErrUnreadableDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: opening PDF: %v", ErrUnreadableDocument, err)
	}

	content = &StatementContent{}
	var text []string
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}

		var pageGlyphs []glyph
		for _, t := range page.Content().Text {
			pageGlyphs = append(pageGlyphs, glyph{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
		}
		glyphs += len(pageGlyphs)

		lines := groupLines(pageGlyphs)
		for _, line := range lines {
			text = append(text, line.String())
		}
		content.Tables = append(content.Tables, detectTables(lines)...)
	}

	content.Text = strings.Join(text, "\n")
	return content, glyphs, nil
}

// groupLines clusters glyphs sharing a baseline into lines, top of the page first
func groupLines(glyphs []glyph) []textLine {
	visible := slices.DeleteFunc(slices.Clone(glyphs), func(g glyph) bool {
		return strings.TrimSpace(g.S) == ""
	})
	slices.SortStableFunc(visible, func(a, b glyph) int {
		if c := cmp.Compare(b.Y, a.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})

	var lines []textLine
	var current []glyph
	lineY := 0.0
	for _, g := range visible {
		if len(current) > 0 && math.Abs(g.Y-lineY) > fontSize(g)*lineTolerance {
			lines = append(lines, textLine{y: lineY, cells: buildCells(current)})
			current = nil
		}
		if len(current) == 0 {
			lineY = g.Y
		}
		current = append(current, g)
	}
	if len(current) > 0 {
		lines = append(lines, textLine{y: lineY, cells: buildCells(current)})
	}
	return lines
}

// buildCells splits one line into cells wherever the horizontal gap is wide
func buildCells(glyphs []glyph) []cell {
	slices.SortStableFunc(glyphs, func(a, b glyph) int { return cmp.Compare(a.X, b.X) })

	var cells []cell
	var text strings.Builder
	var current cell
	for i, g := range glyphs {
		if i > 0 {
			gap := g.X - current.x1
			switch {
			case gap > fontSize(g)*cellGap:
				current.text = text.String()
				cells = append(cells, current)
				text.Reset()
				current = cell{x0: g.X, x1: g.X}
			case gap > fontSize(g)*wordGap:
				text.WriteByte(' ')
			}
		} else {
			current = cell{x0: g.X, x1: g.X}
		}
		text.WriteString(g.S)
		current.x1 = max(current.x1, g.X+g.W)
	}
	if text.Len() > 0 {
		current.text = text.String()
		cells = append(cells, current)
	}
	return cells
}

func fontSize(g glyph) float64 {
	return max(g.Size, 1)
}

// detectTables turns runs of consecutive multi-cell lines into tables.
// Within a run the header is the first line with the most cells; lines above it
// are usually label/value pairs from the statement heading.
func detectTables(lines []textLine) []extraction.Table {
	var tables []extraction.Table
	var run []textLine

	flush := func() {
		widest := 0
		for _, line := range run {
			widest = max(widest, len(line.cells))
		}
		start := slices.IndexFunc(run, func(line textLine) bool { return len(line.cells) == widest })
		if start != -1 && len(run)-start >= 2 {
			tables = append(tables, alignTable(run[start:]))
		}
		run = nil
	}

	for _, line := range lines {
		if len(line.cells) >= minTableCells {
			run = append(run, line)
			continue
		}
		flush()
	}
	flush()
	return tables
}

// alignTable places every cell of every row under the nearest header column
func alignTable(lines []textLine) extraction.Table {
	header := lines[0].cells
	headerRow := make([]string, len(header))
	for i, c := range header {
		headerRow[i] = c.text
	}

	table := extraction.Table{headerRow}
	for _, line := range lines[1:] {
		row := make([]string, len(header))
		for _, c := range line.cells {
			col := nearestColumn(header, c)
			if row[col] != "" {
				row[col] += " "
			}
			row[col] += c.text
		}
		table = append(table, row)
	}
	return table
}

func nearestColumn(header []cell, c cell) int {
	center := (c.x0 + c.x1) / 2
	best, bestDistance := 0, math.Inf(1)
	for i, h := range header {
		distance := 0.0
		switch {
		case center < h.x0:
			distance = h.x0 - center
		case center > h.x1:
			distance = center - h.x1
		}
		if distance < bestDistance {
			best, bestDistance = i, distance
		}
	}
	return best
}
