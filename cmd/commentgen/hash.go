package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for ADMIN_PASS_HASH",
	Long: `Hashes the admin password for the bank upload API. The password is read
from the argument or, when omitted, from the first line of stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashPassword,
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var pw string
	if len(args) == 1 {
		pw = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no password given")
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	if pw == "" {
		return errors.New("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}
