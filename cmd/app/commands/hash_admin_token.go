package commands

import (
	"bufio"
	"fmt"
	"strings"

	apphttp "github.com/allisson/webhooks/internal/http"
)

// RunHashAdminToken prints the Argon2id hash to use as ADMIN_TOKEN_HASH.
// When token is empty it is read from the first line of io.Reader. The value is
// single quoted so godotenv does not expand the "$" separators of the hash.
func RunHashAdminToken(token string, io IOTuple) error {
	if token == "" {
		_, _ = fmt.Fprint(io.Writer, "Enter admin token: ")
		line, err := bufio.NewReader(io.Reader).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read admin token: %w", err)
		}
		token = strings.TrimSpace(line)
		_, _ = fmt.Fprintln(io.Writer)
	}

	hash, err := apphttp.HashAdminToken(token)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "ADMIN_TOKEN_HASH='%s'\n", hash)
	return nil
}
