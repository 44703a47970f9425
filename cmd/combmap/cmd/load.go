package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/ttokutake/combination-map/combmap"
	"github.com/ttokutake/combination-map/flatkey"
)

var errInput = errors.New("input must be a JSON object or an array of rows")

func (o *options) read(cmd *cobra.Command) ([]byte, error) {
	if o.file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(o.file)
}

// load reads the input as a JSON object tree or as an array of rows, each
// row being the tokens followed by the value.
func (o *options) load(cmd *cobra.Command) (*combmap.Map[any], error) {
	data, err := o.read(cmd)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", errInput)
	}

	doc := gjson.ParseBytes(data)
	switch {
	case doc.IsObject():
		return combmap.FromJSON[any](data, combmap.WithDelimiter(o.delimiter))
	case doc.IsArray():
		rows, err := parseRows(doc)
		if err != nil {
			return nil, err
		}
		return combmap.FromRows(rows, combmap.WithDelimiter(o.delimiter))
	default:
		return nil, errInput
	}
}

func parseRows(doc gjson.Result) ([]flatkey.Row[any], error) {
	var (
		rows []flatkey.Row[any]
		err  error
	)
	doc.ForEach(func(_, row gjson.Result) bool {
		items := row.Array()
		if !row.IsArray() || len(items) < 2 {
			err = fmt.Errorf("%w: row %d needs at least one token and a value", errInput, len(rows))
			return false
		}
		comb := make(flatkey.Combination, len(items)-1)
		for i, item := range items[:len(items)-1] {
			if item.Type != gjson.String {
				err = fmt.Errorf("%w: row %d token %d is not a string", errInput, len(rows), i)
				return false
			}
			comb[i] = item.String()
		}
		rows = append(rows, flatkey.Row[any]{
			Combination: comb,
			Value:       items[len(items)-1].Value(),
		})
		return true
	})
	return rows, err
}
