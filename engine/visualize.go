package engine

import (
	"fmt"
	"strings"
)

// Visualize is the hook spec.md §4.9 exposes to external formatters: it
// walks root using get_items(use_defaults=true) semantics and renders each
// datum's global offset, size, type label, and (for arrays) element type
// and length. A run of two or more primitive siblings directly inside an
// Array collapses into a single "..." placeholder line, matching
// original_source/baf/__init__.py's _print_item run-collapsing behavior.
func Visualize(root Datum) string {
	var b strings.Builder
	printItem(&b, root, 0, "root")
	return b.String()
}

func printItem(b *strings.Builder, d Datum, depth int, slot string) {
	indent := strings.Repeat("  ", depth)
	off, offErr := d.Offset()
	sz, szErr := d.Size()
	label := datumLabel(d)

	line := fmt.Sprintf("%s%s: %s", indent, slot, label)
	if arr, ok := d.(*Array); ok {
		line += fmt.Sprintf(" len=%d", arr.Len())
	}
	if offErr == nil {
		line += fmt.Sprintf(" @%d", off)
	}
	if szErr == nil {
		line += fmt.Sprintf(" (%d bytes)", sz)
	} else if IsDependency(szErr) {
		line += " (pending)"
	}
	b.WriteString(line)
	b.WriteString("\n")

	c, ok := d.(Container)
	if !ok {
		return
	}
	items, err := c.items(true)
	if err != nil {
		b.WriteString(indent + "  <pending>\n")
		return
	}

	if _, ok := d.(*Array); ok && allPrimitive(items) && len(items) >= 2 {
		b.WriteString(indent + "  ...\n")
		return
	}

	if blk, ok := d.(*Block); ok {
		for i, it := range items {
			printItem(b, it, depth+1, blk.model.fields[i].name)
		}
		return
	}

	for i, it := range items {
		printItem(b, it, depth+1, fmt.Sprintf("[%d]", i))
	}
}

func allPrimitive(items []Datum) bool {
	for _, it := range items {
		switch it.(type) {
		case *intDatum, *bytesDatum, *fileDatum:
			continue
		default:
			return false
		}
	}
	return true
}
