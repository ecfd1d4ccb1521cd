package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixturegen/model"
	"fixturegen/node"
)

var checkCmd = &cobra.Command{
	Use:   "check RULES_FILE",
	Short: "Walk the node tree like a generator would and report unused selectors",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, set, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	visited := visit(ctx, ctx.Tree().Root())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d rules, %d nodes visited, %d assignments\n",
		args[0], set.Len(), visited, ctx.Plan().Len())

	for _, u := range ctx.Unused() {
		fmt.Fprintf(out, "unused %s: %s (declared at %s)", u.Category, u.Selector, u.Site)

		if len(u.Suggestions) > 0 {
			fmt.Fprintf(out, ", did you mean %v", u.Suggestions)
		}

		fmt.Fprintln(out)
	}

	return ctx.ReportUnused()
}

// visit asks every question a generator asks of n and its subtree, and
// returns the number of nodes visited. Ignored subtrees are skipped.
func visit(ctx *model.Context, n *node.Node) int {
	if ctx.IsIgnored(n) {
		return 0
	}

	ctx.IsNullable(n)
	ctx.Feed(n)
	ctx.EmbeddedModelAt(n)
	ctx.Callbacks(n)
	ctx.Assignments(n)

	if _, ok := ctx.Generator(n); ok {
		return 1
	}

	count := 1
	for _, c := range n.Children() {
		count += visit(ctx, c)
	}

	return count
}
