package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/netchat/internal/errors"
)

// CredentialEnv is the environment variable holding the Gemini API key
const CredentialEnv = "GEMINI_API_KEY"

// LoadEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment are never overridden.
// A missing file is not an error; an unreadable or malformed one is.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return apierrors.NewConfigError(".env", err.Error())
}

// Credential returns the API key from the process environment
func Credential() (string, error) {
	key := strings.TrimSpace(os.Getenv(CredentialEnv))
	if key == "" {
		return "", apierrors.ErrMissingCredential
	}
	return key, nil
}
