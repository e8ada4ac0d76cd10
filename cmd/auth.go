package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/schoolcal/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate a Google account for document access",
		Long: `Auth runs the OAuth2 flow for read-only Google Docs access and caches
the resulting token locally. Each account name gets its own token file,
so multiple Google accounts can be authenticated side by side.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, account)
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "default", "Name to store the token under")

	return cmd
}

func runAuth(cmd *cobra.Command, account string) error {
	if google.HasTokenForAccount(account) {
		fmt.Printf("A token for account %q already exists; continuing replaces it.\n\n", account)
	}

	fmt.Println("Open the following URL in your browser and authorize access:")
	fmt.Printf("\n%s\n\n", google.GetAuthURL())
	fmt.Print("Paste the authorization code here: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	if err := google.SaveToken(cmd.Context(), account, code); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Printf("Token for account %q saved.\n", account)
	return nil
}
