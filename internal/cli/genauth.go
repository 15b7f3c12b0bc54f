package cli

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

func newGenAuthCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "genauth <username>",
		Short: "Generate a user,password fragment for the AUTH environment variable",
		Long:  `Generates a random password for the given username and prints it as a "user,password" fragment ready to append (with a leading ";") to AUTH.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := randomPassword(length)
			if err != nil {
				return fmt.Errorf("genauth: %w", err)
			}
			fmt.Printf("%s,%s\n", args[0], password)
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", 24, "length in bytes of random password material before encoding")

	return cmd
}

func randomPassword(length int) (string, error) {
	if length <= 0 {
		length = 24
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
