package console

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"StackSnap/internal/strutil"
)

type boxChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	cross, tLeft, tRight, tTop, tBottom        string
}

var lineChars = boxChars{
	topLeft: "┌", topRight: "┐", bottomLeft: "└", bottomRight: "┘",
	horizontal: "─", vertical: "│",
	cross: "┼", tLeft: "├", tRight: "┤", tTop: "┬", tBottom: "┴",
}

var asciiChars = boxChars{
	topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
	horizontal: "-", vertical: "|",
	cross: "+", tLeft: "|", tRight: "|", tTop: "-", tBottom: "-",
}

// visibleWidth returns the printed rune width of a cell, ignoring style tags.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(Strip(s))
}

// PrintTable renders headers and a flat, row-major list of cells as a
// bordered table. Cells may contain style tags; widths are computed on
// the visible text. useLineChars selects Unicode box drawing over ASCII.
func PrintTable(headers []string, data []string, useLineChars bool) {
	cols := len(headers)
	if cols == 0 {
		return
	}

	widths := make([]int, cols)
	for i, h := range headers {
		if w := visibleWidth(h); w > widths[i] {
			widths[i] = w
		}
	}
	for i, cell := range data {
		col := i % cols
		if w := visibleWidth(cell); w > widths[col] {
			widths[col] = w
		}
	}

	chars := asciiChars
	if useLineChars {
		chars = lineChars
	}

	border := func(left, junction, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat(chars.horizontal, w+2))
			if i < cols-1 {
				b.WriteString(junction)
			} else {
				b.WriteString(right)
			}
		}
		return b.String()
	}

	row := func(cells []string) {
		var b strings.Builder
		b.WriteString(chars.vertical)
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(strutil.Repeat(" ", widths[i]-visibleWidth(cell)))
			b.WriteString(" ")
			b.WriteString(chars.vertical)
		}
		fmt.Println(ToANSI(b.String()))
	}

	fmt.Println(ToANSI(border(chars.topLeft, chars.tTop, chars.topRight)))
	row(headers)
	fmt.Println(ToANSI(border(chars.tLeft, chars.cross, chars.tRight)))
	for i := 0; i < len(data); i += cols {
		end := min(i+cols, len(data))
		row(data[i:end])
	}
	fmt.Println(ToANSI(border(chars.bottomLeft, chars.tBottom, chars.bottomRight)))
}
