// Package jwk holds the JSON Web Key model used for operation and recovery
// keys, and validation for the secp256k1 keys the method's operations are
// signed with.
package jwk

import (
	"encoding/base64"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/pilacorp/go-sidetree-sdk/common/sderr"
)

const (
	ktyEC        = "EC"
	crvSecp256k1 = "secp256k1"

	coordinateSize = 32
)

// JWK is a public key in JSON Web Key form. Key material beyond the ES256K
// shape is opaque to this SDK.
type JWK struct {
	Kty string `json:"kty,omitempty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
	Kid string `json:"kid,omitempty"`
}

// ValidateEs256k checks that key is a well-formed secp256k1 public key: EC key
// type, secp256k1 curve, 32-byte coordinates forming a point on the curve.
func ValidateEs256k(key *JWK) error {
	if key == nil {
		return sderr.New(sderr.JwkEs256kUndefined, "es256k jwk is not defined")
	}

	if key.Kty != ktyEC {
		return sderr.New(sderr.JwkEs256kMissingOrInvalidKty, "jwk kty must be %q, got %q", ktyEC, key.Kty)
	}

	if key.Crv != crvSecp256k1 {
		return sderr.New(sderr.JwkEs256kMissingOrInvalidCrv, "jwk crv must be %q, got %q", crvSecp256k1, key.Crv)
	}

	x, err := base64.RawURLEncoding.DecodeString(key.X)
	if err != nil || len(x) != coordinateSize {
		return sderr.New(sderr.JwkEs256kMissingOrInvalidX, "jwk x must be a base64url string of %d bytes", coordinateSize)
	}

	y, err := base64.RawURLEncoding.DecodeString(key.Y)
	if err != nil || len(y) != coordinateSize {
		return sderr.New(sderr.JwkEs256kMissingOrInvalidY, "jwk y must be a base64url string of %d bytes", coordinateSize)
	}

	// Uncompressed SEC encoding; ParsePubKey rejects points off the curve.
	uncompressed := make([]byte, 1+2*coordinateSize)
	uncompressed[0] = 0x04
	copy(uncompressed[1:], x)
	copy(uncompressed[1+coordinateSize:], y)

	if _, err := secp256k1.ParsePubKey(uncompressed); err != nil {
		return sderr.New(sderr.JwkEs256kInvalidPoint, "jwk coordinates are not a point on secp256k1: %v", err)
	}

	return nil
}
