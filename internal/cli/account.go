package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LoohanZinho/enem2-sub003/pkg/client"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management commands",
	}

	cmd.AddCommand(newAccountListCmd())
	cmd.AddCommand(newAccountCreateCmd())
	cmd.AddCommand(newAccountDeactivateCmd())

	return cmd
}

func newAccountListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := apiClient.ListAccounts(context.Background(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(list)
			}

			table := NewTable("ID", "EMAIL", "NAME", "ROLE", "ACTIVE", "CREATED")
			for _, a := range list.Accounts {
				table.AddRow(a.ID, a.Email, a.Name, a.Role, formatBool(a.IsActive), formatTime(a.CreatedAt))
			}
			table.Render()

			fmt.Printf("\nShowing %d of %d accounts\n", len(list.Accounts), list.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum accounts to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "offset into the account list")

	return cmd
}

func newAccountCreateCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput("Email: ")
			}
			if password == "" {
				password = promptPassword("Password: ")
			}

			account, err := apiClient.CreateAccount(context.Background(), client.CreateAccountRequest{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Printf("Account created: %s (%s)\n", account.Email, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&name, "name", "", "display name")

	return cmd
}

func newAccountDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate an account (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.DeactivateAccount(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to deactivate account: %w", err)
			}
			fmt.Printf("Account %s deactivated\n", args[0])
			return nil
		},
	}
}
