package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and cache credentials locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		email := strings.TrimSpace(loginEmail)
		if email == "" {
			fmt.Print("Email: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		creds, err := env.client.Login(ctx, email, string(password))
		if err != nil {
			return err
		}

		if err := env.creds.Put(ctx, creds); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s %s <%s>\n", creds.FName, creds.LName, creds.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear cached credentials and token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.creds.Clear(ctx); err != nil {
			return err
		}
		env.client.SetToken("")

		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
}
