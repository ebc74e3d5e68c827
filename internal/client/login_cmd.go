package client

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and store the access token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			fmt.Println("Error reading password:", err)
			return
		}

		token, mustChange, err := api().Login(email, string(password))
		if err != nil {
			fmt.Println("Login failed:", err)
			return
		}

		cfg.Email = email
		cfg.AccessToken = token
		if err := saveConfig(); err != nil {
			fmt.Println("Error saving config:", err)
			return
		}

		fmt.Println("Logged in as", email)
		if mustChange {
			fmt.Println("Your password is temporary and must be changed.")
		}
	},
}
