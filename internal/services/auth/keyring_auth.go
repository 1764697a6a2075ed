package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetToken(server string, token string) error {
	return keyring.Set(k.serviceName, NormalizeServer(server), token)
}

func (k *KeyringStore) GetToken(server string) (string, error) {
	token, err := keyring.Get(k.serviceName, NormalizeServer(server))
	if err == nil {
		return token, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteToken(server string) error {
	err := keyring.Delete(k.serviceName, NormalizeServer(server))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}
