package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/dataqc-go/pkg/dataqc"
)

func newTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text [spec.pdf]",
		Short: "Print the plain text extracted from a PDF specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			result := dataqc.ExtractDocument(data)
			if !result.IsOK() {
				return result.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Value)
			return nil
		},
	}
}
