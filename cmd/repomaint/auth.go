package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/dsablic/repomaint/internal/auth"
	"github.com/dsablic/repomaint/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token for a provider",
		RunE:  runAuthLogin,
	}
	loginCmd.Flags().String("provider", "", "Provider to store a token for ("+strings.Join(auth.Providers, ", ")+")")
	loginCmd.Flags().String("token", "", "Token to store (prompted for when omitted)")
	loginCmd.MarkFlagRequired("provider")

	cmd.AddCommand(loginCmd)
	return cmd
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	providerName, _ := cmd.Flags().GetString("provider")
	token, _ := cmd.Flags().GetString("token")

	if !auth.ValidProvider(providerName) {
		return fmt.Errorf("unsupported provider: %s (use %s)", providerName, strings.Join(auth.Providers, ", "))
	}

	if token == "" && providerName == auth.ProviderGitHub {
		if t, ok := auth.GhCLIToken(); ok {
			fmt.Fprintln(os.Stderr, "Using the token from the gh CLI.")
			token = t
		}
	}
	if token == "" {
		if !ui.IsTTY() {
			return fmt.Errorf("no terminal for the token prompt; pass --token or set %s", auth.EnvKey(providerName))
		}
		err := huh.NewInput().
			Title(fmt.Sprintf("Paste your %s token", providerName)).
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("token cannot be empty")
				}
				return nil
			}).
			Value(&token).
			Run()
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
	}

	store := auth.NewFileStore(auth.DefaultStorePath())
	if err := store.Save(providerName, auth.Credentials{Token: strings.TrimSpace(token)}); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Saved %s credentials to %s\n", providerName, auth.DefaultStorePath())
	return nil
}
