package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ttokutake/combination-map/combmap"
)

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get TOKEN...",
		Short: "Print the value stored under a combination",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}
			v, ok := m.Get(args)
			if !ok {
				return fmt.Errorf("no value at %q", strings.Join(args, opts.delimiter))
			}
			raw, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), raw)
		},
	}
}

type query func(*combmap.Map[any], combmap.Partial) *combmap.Map[any]

func newQueryCmd(opts *options, use, short string, run query) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [TOKEN|*]...",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), run(m, opts.partial(args)), opts.output)
		},
	}
}

func newConvertCmd(opts *options, use, format string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Print the whole input as %s", format),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), m, format)
		},
	}
}

func newSumCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sum [TOKEN|*]...",
		Short: "Add up the values of entries whose leading tokens match",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}
			nums, err := numbers(m.StartWith(opts.partial(args)))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), combmap.Sum(nums))
			return err
		},
	}
}

// numbers narrows m to float64 values, failing on the first other value.
func numbers(m *combmap.Map[any]) (*combmap.Map[float64], error) {
	var bad combmap.Combination
	nums, err := combmap.Transform(m, func(c combmap.Combination, v any) float64 {
		f, ok := v.(float64)
		if !ok && bad == nil {
			bad = c
		}
		return f
	})
	if err != nil {
		return nil, err
	}
	if bad != nil {
		return nil, fmt.Errorf("value at %q is not a number", strings.Join(bad, " "))
	}
	return nums, nil
}
