package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginUser string

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Eventful and verify credentials",
	Long: `Perform the nonce challenge login with the configured credentials.
When no password is configured it is read from the terminal.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "username (default from config)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	username := cfg.Eventful.Username
	password := cfg.Eventful.Password
	if loginUser != "" && loginUser != username {
		username, password = loginUser, ""
	}
	if username == "" {
		return errors.New("no username configured: set eventful.username or pass --user")
	}

	if password == "" {
		var err error
		password, err = readPassword()
		if err != nil {
			return err
		}
	}

	if err := client.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	session := client.Session()
	fmt.Printf("✓ Logged in as %s\n", session.Username)
	fmt.Printf("- User key: %s\n", maskKey(session.UserKey))
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no password configured and stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
