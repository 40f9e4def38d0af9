package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// Document builds an ESC/POS byte stream for thermal receipt printers.
type Document struct {
	buf   bytes.Buffer
	width int // print width in characters (default 32 for 58mm, 48 for 80mm)
}

// NewDocument creates a new ESC/POS document with the given character width.
// Common widths: 32 for 58mm paper, 48 for 80mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	d.buf.WriteString(fmt.Sprintf(format, args...))
	d.buf.WriteByte(LF)
	return d
}

// Separator prints a full-width separator line (e.g. "--------------------------------").
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Subtotal             100.00"
func (d *Document) KeyValue(key, value string) *Document {
	return d.Columns([]Column{{Text: key}, {Text: value, Align: AlignRight}}, d.width-len(value)-1)
}

// Column is one cell of a fixed-width row.
type Column struct {
	Text  string
	Align int // AlignLeft or AlignRight
}

// Columns prints cols on one line. The first column takes first characters
// and is cut when too long; the remaining width is shared evenly by the rest.
func (d *Document) Columns(cols []Column, first int) *Document {
	if len(cols) == 0 {
		return d.LineFeed()
	}
	if first > d.width || len(cols) == 1 {
		first = d.width
	}
	rest := 0
	if len(cols) > 1 {
		rest = (d.width - first) / (len(cols) - 1)
	}

	var line strings.Builder
	for i, c := range cols {
		w := rest
		if i == 0 {
			w = first
		}
		line.WriteString(pad(c.Text, w, c.Align))
	}
	d.buf.WriteString(strings.TrimRight(line.String(), " "))
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints a receipt item: qty x name, then the right-aligned total.
// Names too long for the line are cut.
// Example: "2x Paracetamol 500mg     54.00"
func (d *Document) ItemLine(qty int, name, total string) *Document {
	prefix := fmt.Sprintf("%dx %s", qty, name)
	room := d.width - len(total) - 1
	if room < 1 {
		room = 1
	}
	return d.Columns([]Column{{Text: truncate(prefix, room)}, {Text: total, Align: AlignRight}}, d.width-len(total))
}

// Width returns the line width in characters.
func (d *Document) Width() int {
	return d.width
}

func pad(s string, w, align int) string {
	if w <= 0 {
		return ""
	}
	s = truncate(s, w)
	gap := strings.Repeat(" ", w-len(s))
	if align == AlignRight {
		return gap + s
	}
	return s + gap
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	return s[:w]
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.Init()
	return d
}
