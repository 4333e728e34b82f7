package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/enasequence/sequencetools-sub002/internal/gencode"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the supported translation tables",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(cmd.OutOrStdout())
		},
	}
}

func runTables(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tStart codons\tStop codons")
	for _, id := range gencode.IDs() {
		t, err := gencode.Get(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Name,
			strings.Join(t.StartCodons(), ","),
			strings.Join(t.StopCodons(), ","))
	}
	return tw.Flush()
}
