package util

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"

	"github.com/turbot/flowpipe-form/fperr"
	"github.com/turbot/flowpipe-form/internal/cache"
	"github.com/turbot/flowpipe-form/internal/constants"
)

// Assumes that the dir exists
//
// The function creates the salt if it does not exist, or it returns the existing
// salt if it's already there
func CreateSalt(filename string, length int) (string, error) {
	// Check if the salt file exists
	if _, err := os.Stat(filename); err == nil {
		// If the file exists, read the salt from it
		slog.Debug("Salt file exists, reading from it", "filename", filename, "length", length)
		saltBytes, err := os.ReadFile(filename)
		if err != nil {
			return "", err
		}
		return string(saltBytes), nil
	}

	slog.Debug("Salt file does not exist, creating a new one", "filename", filename, "length", length)
	// If the file does not exist, generate a new salt
	salt := make([]byte, length)
	_, err := rand.Read(salt)
	if err != nil {
		return "", err
	}

	// Encode the salt as a hexadecimal string
	saltHex := hex.EncodeToString(salt)

	// Write the salt to the file
	err = os.WriteFile(filename, []byte(saltHex), 0600)
	if err != nil {
		return "", err
	}

	return saltHex, nil
}

// GetGlobalSalt returns the process salt from the cache, as stashed there
// during startup.
func GetGlobalSalt() (string, error) {
	if c := cache.GetCache(); c != nil {
		if salt, ok := c.Get(constants.SaltCacheKey); ok {
			if s, ok := salt.(string); ok {
				return s, nil
			}
		}
	}
	return "", fperr.InternalWithMessage("salt not found")
}
