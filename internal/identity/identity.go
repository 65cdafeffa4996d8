// Package identity loads the libp2p key pair a node uses to derive its
// peer id, per §4.7.
package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"os"

	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"

	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

// Load returns the node's private key. An empty path generates a fresh
// ephemeral Ed25519 identity, one per process. A non-empty path is read
// as a PKCS8 DER-encoded RSA private key; any failure to read or parse
// it is market.ErrInvalidConfiguration.
func Load(path string) (libp2pcrypto.PrivKey, error) {
	if path == "" {
		priv, _, err := libp2pcrypto.GenerateEd25519Key(nil)
		if err != nil {
			return nil, fmt.Errorf("identity: generating ephemeral key: %w", err)
		}
		return priv, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading private key file: %v", market.ErrInvalidConfiguration, err)
	}

	key, err := x509.ParsePKCS8PrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing PKCS8 private key: %v", market.ErrInvalidConfiguration, err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is not RSA", market.ErrInvalidConfiguration)
	}

	priv, err := libp2pcrypto.UnmarshalRsaPrivateKey(x509.MarshalPKCS1PrivateKey(rsaKey))
	if err != nil {
		return nil, fmt.Errorf("%w: wrapping RSA key for libp2p: %v", market.ErrInvalidConfiguration, err)
	}
	return priv, nil
}
