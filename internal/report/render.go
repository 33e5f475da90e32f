// Package report renders a margin tree as indented text or as a delimited
// table. Output is deterministic down to the byte: the tree fixes child
// order, and amounts print at a fixed two-decimal rounding.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/finclear/marginengine/internal/margintree"
)

const displayDecimals = 2

// RenderTree writes the breakdown as an indented tree.
func RenderTree(w io.Writer, node margintree.Node) error {
	return renderTree(w, node, 0)
}

func renderTree(w io.Writer, node margintree.Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	amount := node.Amount().Round(displayDecimals)
	var line string
	if node.Identifier() == node.Name() {
		line = fmt.Sprintf("%s%s = %s\n", indent, node.Name(), amount)
	} else {
		line = fmt.Sprintf("%s%s %s = %s\n", indent, node.Name(), node.Identifier(), amount)
	}
	if _, err := io.WriteString(w, line); err != nil {
		return err
	}
	for _, child := range node.Children() {
		if err := renderTree(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// RenderTable writes the breakdown as a pipe-delimited table, one node per
// line: level|name|identifier|amount|currency.
func RenderTable(w io.Writer, node margintree.Node) error {
	if _, err := io.WriteString(w, "level|name|identifier|amount|currency\n"); err != nil {
		return err
	}
	return renderTable(w, node)
}

func renderTable(w io.Writer, node margintree.Node) error {
	amount := node.Amount().Round(displayDecimals)
	line := fmt.Sprintf("%d|%s|%s|%s|%s\n",
		node.Level(), node.Name(), node.Identifier(),
		amount.Value().StringFixed(displayDecimals), amount.Currency())
	if _, err := io.WriteString(w, line); err != nil {
		return err
	}
	for _, child := range node.Children() {
		if err := renderTable(w, child); err != nil {
			return err
		}
	}
	return nil
}
