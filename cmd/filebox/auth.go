package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/filebox/filebox/internal/client"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Authenticates against the server and stores the session token in
` + client.TokenFilePath() + `.

The username can be passed as an argument; the password is always read
interactively and never echoed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DeleteToken(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.signIn(cmd.Context()); err != nil {
			return err
		}
		user := a.ctrl.User()
		fmt.Printf("%s <%s> (id %d) @ %s\n", user.Username, user.Email, user.ID, a.api.BaseURL())
		return nil
	},
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireServer(); err != nil {
		return err
	}

	username := ""
	if len(args) == 1 {
		username = args[0]
	} else {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	resp, err := a.api.Login(cmd.Context(), username, string(passwordBytes))
	if err != nil {
		return err
	}

	account := username
	if resp.User != nil {
		account = resp.User.Username
	}
	if err := client.SaveToken(&client.TokenFile{
		Token:    resp.Token,
		Server:   a.api.BaseURL(),
		Username: account,
	}); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}

	fmt.Printf("Logged in as %s.\n", account)
	return nil
}
