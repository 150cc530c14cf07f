package cli

import (
	"github.com/spf13/cobra"
)

var signalsCmd = &cobra.Command{
	Use:   "signals [instrument...]",
	Short: "Scan for trading signals now and deliver any found",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Scan(cmd.Context(), args)
	},
}
