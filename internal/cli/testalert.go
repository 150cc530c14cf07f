package cli

import (
	"github.com/spf13/cobra"
)

var testAlertInstrument string

var testAlertCmd = &cobra.Command{
	Use:   "test-alert",
	Short: "Send a fabricated signal through the delivery channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().TestAlert(cmd.Context(), testAlertInstrument)
	},
}

func init() {
	testAlertCmd.Flags().StringVar(&testAlertInstrument, "instrument", "", "Instrument to fetch for the test chart (default: first configured)")
}
