package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Eventful",
	Long:  `Test the connection and application key, and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Testing connection to Eventful at %s...\n", client.BaseURL())

	if err := client.Ping(ctx); err != nil {
		return err
	}
	fmt.Println("✓ Connection successful!")

	doc, err := client.Call(ctx, "categories/list", nil)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	categories, err := doc.Records("categories")
	if err != nil {
		return fmt.Errorf("failed to read categories: %w", err)
	}

	fmt.Printf("\nEventful Statistics:\n")
	fmt.Printf("- Total categories: %d\n", len(categories))

	if cfg.Eventful.HasCredentials() {
		if err := client.Login(ctx, cfg.Eventful.Username, cfg.Eventful.Password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Printf("✓ Logged in as %s\n", cfg.Eventful.Username)
	} else {
		fmt.Println("\nLogin: Disabled (no credentials configured)")
	}

	return nil
}
