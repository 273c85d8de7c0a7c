// Package auth stores the platform bearer token in the system keyring and hands it to API calls.
package auth

import (
	"errors"
	"fmt"

	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/log"
	"github.com/zalando/go-keyring"
)

const (
	service = constant.App
	user    = "session-token"
)

// SetToken persists the bearer token to the system keyring.
func SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if err := keyring.Set(service, user, token); err != nil {
		log.Error("Failed to save token to keyring: " + err.Error())
		return err
	}
	return nil
}

// GetToken retrieves the bearer token. A missing token is not an error.
func GetToken() (string, error) {
	token, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		log.Info("No token found in keyring")
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// DeleteToken removes the bearer token. Deleting a missing token succeeds.
func DeleteToken() error {
	err := keyring.Delete(service, user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Error("Failed to delete token from keyring: " + err.Error())
		return err
	}
	return nil
}
