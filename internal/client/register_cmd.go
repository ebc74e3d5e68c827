package client

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(registerCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Register a new account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]

		fmt.Print("Password (6 digits): ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			fmt.Println("Error reading password:", err)
			return
		}

		fmt.Print("Confirm password: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			fmt.Println("Error reading password:", err)
			return
		}

		var question, answer string
		fmt.Print("Security question: ")
		fmt.Scanln(&question)
		fmt.Print("Answer: ")
		fmt.Scanln(&answer)

		err = api().doJSON(http.MethodPost, "/api/auth/register", map[string]string{
			"email":             email,
			"password":          string(password),
			"password_confirm":  string(confirm),
			"security_question": question,
			"security_answer":   answer,
		}, nil)
		if err != nil {
			fmt.Println("Registration failed:", err)
			return
		}

		fmt.Println("Registered. Use 'ulak login' to sign in.")
	},
}
