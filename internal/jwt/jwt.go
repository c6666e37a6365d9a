// Package jwt signs and validates the bearer tokens that identify players.
package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"liars-server/internal/config"
)

// Issuer issues the JWT
const Issuer = "liars-server"

// Audience is the intended JWT audience
const Audience = "liars-players"

// TTL is how long a signed token stays valid
const TTL = time.Hour * 24

var publicKey *rsa.PublicKey
var privateKey *rsa.PrivateKey

// ErrKeysNotLoaded is returned when tokens are used before LoadKeys
var ErrKeysNotLoaded = errors.New("jwt keys have not been loaded")

// LoadKeys will load the public and private keys from the configured paths
// The private key is optional: a server that only validates tokens can run without it.
func LoadKeys() error {
	cfg := config.Instance().JWT

	pub, err := loadPublicKey(cfg.PublicKey)
	if err != nil {
		return err
	}

	var priv *rsa.PrivateKey
	if cfg.PrivateKey != "" {
		if _, statErr := os.Stat(cfg.PrivateKey); statErr == nil {
			if priv, err = loadPrivateKey(cfg.PrivateKey); err != nil {
				return err
			}
		}
	}

	SetKeys(priv, pub)
	return nil
}

// SetKeys replaces the signing and validation keys
func SetKeys(priv *rsa.PrivateKey, pub *rsa.PublicKey) {
	privateKey = priv
	publicKey = pub
}

// Sign will sign a JWT for the player ID
func Sign(playerID int64) (string, error) {
	if privateKey == nil {
		return "", ErrKeysNotLoaded
	}

	now := time.Now()
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, jwtgo.RegisteredClaims{
		Audience:  jwtgo.ClaimStrings{Audience},
		ID:        uuid.New().String(),
		IssuedAt:  jwtgo.NewNumericDate(now),
		ExpiresAt: jwtgo.NewNumericDate(now.Add(TTL)),
		Issuer:    Issuer,
		Subject:   strconv.FormatInt(playerID, 10),
	})

	return token.SignedString(privateKey)
}

// ValidUserID will validate a signed JWT and return the player ID it was issued for
func ValidUserID(signedString string) (int64, error) {
	if publicKey == nil {
		return 0, ErrKeysNotLoaded
	}

	claims := &jwtgo.RegisteredClaims{}
	_, err := jwtgo.ParseWithClaims(signedString, claims, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodRSA); !ok {
			return nil, errors.New("expected RS256 signing method")
		}

		return publicKey, nil
	}, jwtgo.WithAudience(Audience), jwtgo.WithIssuer(Issuer))

	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject: %w", err)
	}

	return id, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read public key: %w", err)
	}

	key, err := jwtgo.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return key, nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read private key: %w", err)
	}

	key, err := jwtgo.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA private key: %w", err)
	}

	return key, nil
}
