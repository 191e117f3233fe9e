package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LoohanZinho/enem2-sub003/pkg/client"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Access key management commands (admin)",
	}

	cmd.AddCommand(newKeyListCmd())
	cmd.AddCommand(newKeyGrantCmd())
	cmd.AddCommand(newKeyRevokeCmd())

	return cmd
}

func newKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's access keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := apiClient.ListKeys(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(list)
			}

			table := NewTable("KEY", "PLAN", "STATUS", "EXPIRES", "RECURRING", "PAYMENT")
			for _, k := range list.Keys {
				table.AddRow(k.Key, k.Plan, formatStatus(k.Status), formatTime(k.ExpiresAt), formatBool(k.IsRecurring), k.PaymentID)
			}
			table.Render()
			return nil
		},
	}
}

func newKeyGrantCmd() *cobra.Command {
	var userID, plan, paymentID, subscriptionID string
	var recurring bool

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant an access key to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				userID = promptInput("User ID: ")
			}

			key, err := apiClient.IssueKey(context.Background(), client.IssueKeyRequest{
				UserID:         userID,
				Plan:           plan,
				PaymentID:      paymentID,
				IsRecurring:    recurring,
				SubscriptionID: subscriptionID,
			})
			if err != nil {
				return fmt.Errorf("failed to grant key: %w", err)
			}

			fmt.Printf("Key granted: %s (plan %s, expires %s)\n", key.Key, key.Plan, formatTime(key.ExpiresAt))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&plan, "plan", "monthly", "plan: monthly, semiannual or annual")
	cmd.Flags().StringVar(&paymentID, "payment", "", "payment id to associate")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "mark the key as a recurring subscription")
	cmd.Flags().StringVar(&subscriptionID, "subscription", "", "subscription id for recurring keys")

	return cmd
}

func newKeyRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <key>",
		Short: "Revoke an access key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.RevokeKey(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to revoke key: %w", err)
			}
			fmt.Printf("Key %s revoked\n", args[0])
			return nil
		},
	}
}
