package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session's access status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := apiClient.AccessStatus(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get access status: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(status)
			}

			fmt.Printf("State:   %s\n", formatStatus(status.State))
			if status.Plan != "" {
				fmt.Printf("Plan:    %s\n", status.Plan)
			}
			if status.Key != "" {
				fmt.Printf("Key:     %s\n", status.Key)
			}
			if status.ExpiresAt != nil {
				fmt.Printf("Expires: %s\n", formatTime(*status.ExpiresAt))
			}
			return nil
		},
	}
}
