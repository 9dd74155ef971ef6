package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/nodekit/pkg/nodes"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <request.yaml|request.json>",
	Short: "Evaluate a Text Out node and write its text into text.dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		req, err := loadRequest(args[0])
		if err != nil {
			return err
		}
		b, err := req.build(e.registry)
		if err != nil {
			return err
		}
		textOut, ok := b.node.(*nodes.TextOut)
		if !ok {
			return fmt.Errorf("dump: %s is not a text out node", b.node.ID())
		}
		if err := e.evaluator.Evaluate(cmd.Context(), textOut, b.sockets); err != nil {
			return err
		}
		if textOut.Autodump {
			fmt.Fprintf(cmd.OutOrStdout(), "autodumped to %s\n", textOut.Text)
			return nil
		}
		written, err := textOut.Dump(b.sockets)
		if err != nil {
			return err
		}
		if !written {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to write")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dumped to %s\n", textOut.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
