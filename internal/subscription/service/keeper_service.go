// Package service provides the cryptographic helpers behind subscription secrets.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"gocloud.dev/secrets"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"

	// Keeper drivers selectable through SUBSCRIPTION_SECRETS_KEY_URI
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// secretBytes is the entropy of a generated signing secret.
const secretBytes = 32

// KeeperService opens the keeper that encrypts subscription secrets at rest.
type KeeperService interface {
	// OpenKeeper opens a keeper for keyURI: base64key://, hashivault://, awskms://,
	// gcpkms:// or azurekeyvault://.
	OpenKeeper(ctx context.Context, keyURI string) (subscriptionDomain.SecretKeeper, error)
}

type keeperService struct{}

// NewKeeperService creates a new KeeperService.
func NewKeeperService() KeeperService {
	return &keeperService{}
}

// OpenKeeper opens a gocloud.dev/secrets keeper.
func (k *keeperService) OpenKeeper(ctx context.Context, keyURI string) (subscriptionDomain.SecretKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open secrets keeper: %w", err)
	}
	return keeper, nil
}

// GenerateSecret returns a new random signing secret such as "whsec_3f9a...".
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate subscription secret: %w", err)
	}
	return subscriptionDomain.SecretPrefix + hex.EncodeToString(buf), nil
}
