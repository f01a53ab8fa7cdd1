package session

import (
	"context"
	"os"

	"github.com/99designs/keyring"

	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
)

const serviceName = "parceltrack"

var userHomeDir = os.UserHomeDir

// Keyring keeps the session in the OS credential store.
type Keyring struct {
	ring keyring.Keyring
}

// OpenKeyring opens the system keyring, falling back to an encrypted file
// store under fileDir.
func OpenKeyring(fileDir string) (*Keyring, error) {
	if fileDir == "" {
		fileDir = "~/" + constants.DefaultKeyringDir
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("parceltrack-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, errors.NewConfigError("keyring", "opening keyring", err)
	}
	return NewKeyring(ring), nil
}

// NewKeyring wraps an already opened keyring.
func NewKeyring(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring}
}

// Get implements Storage.
func (k *Keyring) Get(_ context.Context, key string) (string, error) {
	item, err := k.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", errors.NewNotFoundError("storage key", key)
	}
	if err != nil {
		return "", errors.WrapIO("read", "keyring:"+key, err)
	}
	return string(item.Data), nil
}

// Set implements Storage.
func (k *Keyring) Set(_ context.Context, key, value string) error {
	err := k.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	return errors.WrapIO("write", "keyring:"+key, err)
}

// Remove implements Storage.
func (k *Keyring) Remove(_ context.Context, key string) error {
	err := k.ring.Remove(key)
	if err == nil || errors.Is(err, keyring.ErrKeyNotFound) || os.IsNotExist(err) {
		return nil
	}
	return errors.WrapIO("delete", "keyring:"+key, err)
}

// Close implements Storage.
func (k *Keyring) Close() error { return nil }
