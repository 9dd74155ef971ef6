package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/nodekit/pkg/node"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the registered node types",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tALIASES\tLABEL\tINPUTS\tOUTPUTS")
		for _, id := range e.registry.IDs() {
			n, err := e.registry.New(id, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				id,
				strings.Join(e.registry.Aliases(id), ","),
				n.Label(),
				socketNames(n.Inputs()),
				socketNames(n.Outputs()))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}

func socketNames(specs []node.SocketSpec) string {
	if len(specs) == 0 {
		return "-"
	}
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return strings.Join(names, ",")
}
