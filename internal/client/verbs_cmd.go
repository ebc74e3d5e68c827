package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(acceptCmd, rejectCmd, cancelCmd)
}

func verbCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <session_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := api().Verb(args[0], verb); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("Transfer %s %sed.\n", args[0], verb)
		},
	}
}

var (
	acceptCmd = verbCmd("accept", "Accept an incoming transfer")
	rejectCmd = verbCmd("reject", "Reject an incoming transfer")
	cancelCmd = verbCmd("cancel", "Cancel a transfer you started")
)
