// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/notify"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: `Sign in with email and password. The token is kept in the configured
credential slot (EXPENSA_TOKEN_BACKEND) until logout or expiry.

The password is prompted for when --password is omitted.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Auth.Logout(cmd.Context()); err != nil {
			return err
		}
		notify.Success(notifier(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	input := bufio.NewReader(cmd.InOrStdin())

	email := loginEmail
	if email == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
		line, err := input.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		email = strings.TrimSpace(line)
	}

	password := loginPassword
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		var err error
		if password, err = readPassword(input); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	if err := application.Auth.Login(cmd.Context(), email, password); err != nil {
		return err
	}

	user := application.Session.CurrentUser()
	if user == nil {
		return apperr.Unauthorized("The server issued a token that could not be read.")
	}

	notify.Success(notifier(), fmt.Sprintf("Signed in as %s (%s).", user.Name, user.Role))
	return nil
}

// readPassword reads without echo on a terminal and falls back to a plain line read.
func readPassword(input *bufio.Reader) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if !application.Session.IsAuthenticated() {
		return errors.New("not signed in; run `expensa login`")
	}

	profile, err := application.Auth.Me(cmd.Context())
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			return shown(err)
		}
		return err
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "ID\t%s\n", profile.ID)
	fmt.Fprintf(writer, "Name\t%s\n", profile.Name)
	fmt.Fprintf(writer, "Email\t%s\n", profile.Email)
	fmt.Fprintf(writer, "Role\t%s\n", profile.Role)
	if profile.DepartmentID != "" {
		fmt.Fprintf(writer, "Department\t%s\n", profile.DepartmentID)
	}
	return writer.Flush()
}
