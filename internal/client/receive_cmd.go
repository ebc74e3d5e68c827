package client

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var receiveOutput string

func init() {
	receiveCmd.Flags().StringVarP(&receiveOutput, "output", "o", "", "output path (default: the transfer's file name)")
	rootCmd.AddCommand(receiveCmd)
}

var receiveCmd = &cobra.Command{
	Use:   "receive <session_id>",
	Short: "Download a transfer's file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]

		sessions, err := api().ListSessions(200, 0)
		if err != nil {
			fmt.Println("Error fetching transfers:", err)
			return
		}

		var session *Session
		for i := range sessions {
			if sessions[i].ID == sessionID {
				session = &sessions[i]
				break
			}
		}
		if session == nil {
			fmt.Println("Transfer not found:", sessionID)
			return
		}

		dest := receiveOutput
		if dest == "" {
			dest = session.FileName
		}

		if err := api().Download(sessionID, dest); err != nil {
			fmt.Println("Download failed:", err)
			return
		}

		if ok, err := verifyChecksum(dest, session.ChecksumSHA256); err != nil {
			fmt.Println("Error verifying checksum:", err)
			return
		} else if !ok {
			fmt.Println("WARNING: checksum mismatch, file may be corrupt")
			return
		}

		fmt.Printf("Downloaded %s (checksum verified)\n", dest)
	},
}

func verifyChecksum(path, want string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return false, err
	}
	return strings.EqualFold(hex.EncodeToString(hasher.Sum(nil)), want), nil
}
