package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"

	"github.com/ttokutake/combination-map/combmap"
)

const (
	outputTree = "tree"
	outputRows = "rows"
	outputFlat = "flat"
)

func writeJSON(w io.Writer, raw []byte) error {
	_, err := w.Write(pretty.Pretty(raw))
	return err
}

func rowsJSON(m *combmap.Map[any]) ([]byte, error) {
	rows := make([][]any, 0, m.Len())
	for _, row := range m.ToRows() {
		cells := make([]any, 0, len(row.Combination)+1)
		for _, token := range row.Combination {
			cells = append(cells, token)
		}
		rows = append(rows, append(cells, row.Value))
	}
	return json.Marshal(rows)
}

func write(w io.Writer, m *combmap.Map[any], format string) error {
	switch format {
	case outputTree:
		raw, err := m.MarshalJSON()
		if err != nil {
			return fmt.Errorf("%w (try -o rows)", err)
		}
		return writeJSON(w, raw)
	case outputRows:
		raw, err := rowsJSON(m)
		if err != nil {
			return err
		}
		return writeJSON(w, raw)
	case outputFlat:
		return m.Dump(w)
	default:
		return fmt.Errorf("unknown output format %q, want tree, rows or flat", format)
	}
}
