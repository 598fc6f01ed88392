package mailer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	KeyringService = "jobber"
	PasswordEnv    = "JOBBER_SMTP_PASSWORD"
)

var ErrPasswordNotFound = errors.New("smtp password not found (set JOBBER_SMTP_PASSWORD or run `jobber secrets set-smtp`)")

// KeyringAccount names the keyring entry for a user on host.
func KeyringAccount(username string, host string) string {
	return fmt.Sprintf("smtp:%s@%s", username, host)
}

// ResolvePassword prefers the environment and falls back to the keyring.
func ResolvePassword(account string) (string, error) {
	if pw := strings.TrimSpace(os.Getenv(PasswordEnv)); pw != "" {
		return pw, nil
	}
	if strings.TrimSpace(account) != "" {
		pw, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	return "", ErrPasswordNotFound
}

func SetPassword(account string, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

func DeletePassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
