package client

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	sendReceiverID   string
	sendReceiverAddr string
)

func init() {
	sendCmd.Flags().StringVar(&sendReceiverID, "to", "", "receiver user id")
	sendCmd.Flags().StringVar(&sendReceiverAddr, "to-ip", "", "receiver address")
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send <file>",
	Short: "Declare a transfer and upload the file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		size, checksum, err := FileChecksum(path)
		if err != nil {
			fmt.Println("Error reading file:", err)
			return
		}

		session, err := api().CreateSession(sendReceiverID, sendReceiverAddr, filepath.Base(path), size, checksum)
		if err != nil {
			fmt.Println("Error creating transfer:", err)
			return
		}
		fmt.Println("Created transfer", session.ID)

		if err := api().Upload(session.ID, path); err != nil {
			fmt.Println("Upload failed:", err)
			return
		}
		fmt.Printf("Uploaded %s (%d bytes)\n", session.FileName, size)
	},
}
