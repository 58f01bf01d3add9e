// Package clicmd wires the sdlc binary's cobra command tree onto the
// core packages. Every command loads state fresh from disk, mutates
// through the aggregate it owns, saves, and prints either a plain-text
// summary or (with --json) a machine-readable document — mirroring the
// print_json/print_table split the CLI this was adapted from used
// throughout its cmd/ tree.
package clicmd

import (
	"encoding/json"
	"fmt"
	"strings"
)

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = c + strings.Repeat(" ", widths[i]-len(c))
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(headers)
	for _, row := range rows {
		printRow(row)
	}
}
