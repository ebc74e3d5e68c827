package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listOffset int
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "max sessions to list")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "sessions to skip")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your transfer sessions",
	Run: func(cmd *cobra.Command, args []string) {
		sessions, err := api().ListSessions(listLimit, listOffset)
		if err != nil {
			fmt.Println("Error listing transfers:", err)
			return
		}

		if len(sessions) == 0 {
			fmt.Println("No transfers.")
			return
		}

		for _, s := range sessions {
			fmt.Printf("%s  %-11s  %s (%d bytes)\n", s.ID, s.Status, s.FileName, s.FileSize)
		}
	},
}
