package configs

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/pbkdf2"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

// LoadSessionKeys prefers explicit base64 APP_AUTH_KEY/APP_ENC_KEY values
// and otherwise derives both from SESSION_KEY so a single secret is enough
// for development setups.
func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	if env.AppAuthKey != "" && env.AppEncKey != "" {
		authKey, err := base64.URLEncoding.DecodeString(env.AppAuthKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode APP_AUTH_KEY: %w", err)
		}
		encKey, err := base64.URLEncoding.DecodeString(env.AppEncKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode APP_ENC_KEY: %w", err)
		}
		if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
			return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d, must be 16, 24, or 32 bytes", len(encKey))
		}
		return &SessionKeys{AuthKey: authKey, EncKey: encKey}, nil
	}

	if env.SessionKey == "" {
		return nil, fmt.Errorf("no session key material configured")
	}

	secret := []byte(env.SessionKey)
	return &SessionKeys{
		AuthKey: pbkdf2.Key(secret, []byte("marbo-auth"), 4096, 64, sha256.New),
		EncKey:  pbkdf2.Key(secret, []byte("marbo-enc"), 4096, 32, sha256.New),
	}, nil
}

// GenerateAndPrintSessionKeys emits fresh key material for the .env file.
func GenerateAndPrintSessionKeys() error {
	authKey := securecookie.GenerateRandomKey(64)
	if authKey == nil {
		return fmt.Errorf("could not generate authentication key")
	}
	encKey := securecookie.GenerateRandomKey(32)
	if encKey == nil {
		return fmt.Errorf("could not generate encryption key")
	}

	fmt.Printf("APP_AUTH_KEY=%s\n", base64.URLEncoding.EncodeToString(authKey))
	fmt.Printf("APP_ENC_KEY=%s\n", base64.URLEncoding.EncodeToString(encKey))
	fmt.Println("Copy these lines into your .env file. Regenerating invalidates existing sessions.")
	return nil
}
