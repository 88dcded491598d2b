package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walloflove/wol-server/internal/embed"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <script-url>",
		Short: "Print the widget id an embed script URL refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			widgetID, err := embed.ParseScriptURL(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), widgetID)
			return nil
		},
	}
}
