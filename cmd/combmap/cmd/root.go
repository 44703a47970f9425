package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ttokutake/combination-map/combmap"
	"github.com/ttokutake/combination-map/flatkey"
)

type options struct {
	delimiter string
	file      string
	output    string
	literal   bool
}

// partial turns the positional arguments into a query. Unless --literal is
// set, a "*" argument is the wildcard.
func (o *options) partial(args []string) combmap.Partial {
	if o.literal {
		return combmap.Literal(args...)
	}
	return combmap.Glob(args...)
}

// NewRootCmd builds the combmap command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "combmap",
		Short: "Query combination maps stored as JSON",
		Long: "Load a combination map from a JSON object tree or from JSON rows\n" +
			"([token, ..., value] arrays) and filter, re-key or sum it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.delimiter, "delimiter", "d", flatkey.DefaultDelimiter, "delimiter between the tokens of a flat key")
	flags.StringVarP(&opts.file, "file", "f", "-", "input file, - reads stdin")
	flags.StringVarP(&opts.output, "output", "o", outputTree, "output format: tree, rows or flat")
	flags.BoolVar(&opts.literal, "literal", false, "treat * as a literal token")

	root.AddCommand(
		newGetCmd(opts),
		newQueryCmd(opts, "startwith", "Keep entries whose leading tokens match", (*combmap.Map[any]).StartWith),
		newQueryCmd(opts, "endwith", "Keep entries whose trailing tokens match", (*combmap.Map[any]).EndWith),
		newQueryCmd(opts, "have", "Keep entries containing the tokens", (*combmap.Map[any]).Have),
		newQueryCmd(opts, "shave", "Keep entries starting with the tokens, without them", (*combmap.Map[any]).Shave),
		newQueryCmd(opts, "trim", "Strip the tokens from entries starting with them", (*combmap.Map[any]).Trim),
		newConvertCmd(opts, "rows", outputRows),
		newConvertCmd(opts, "tree", outputTree),
		newSumCmd(opts),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
