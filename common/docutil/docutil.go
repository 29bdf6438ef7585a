// Package docutil provides the byte-level encoding and hashing primitives used
// by the identifier resolver: padding-free Base64URL strings and multihash
// values whose prefix carries the hash algorithm they were computed with.
package docutil

import (
	"encoding/base64"
	"fmt"

	"github.com/multiformats/go-multihash"

	"github.com/pilacorp/go-sidetree-sdk/common/sderr"
)

// Sha2_256 is the multihash code for SHA2-256, the only algorithm the method
// currently anchors suffixes with.
const Sha2_256 uint64 = multihash.SHA2_256

// EncodeToString encodes data as Base64URL without padding.
func EncodeToString(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeString decodes a padding-free Base64URL string.
func DecodeString(encoded string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, sderr.New(sderr.EncodedStringIncorrectEncoding, "value is not base64url encoded: %v", err)
	}
	return data, nil
}

// ComputeMultihash hashes data with the algorithm identified by code and
// returns the full multihash bytes (algorithm prefix included).
func ComputeMultihash(code uint64, data []byte) ([]byte, error) {
	if !IsSupportedMultihashCode(code) {
		return nil, sderr.New(sderr.MultihashNotSupported, "algorithm not supported, unable to compute hash: %d", code)
	}

	mh, err := multihash.Sum(data, code, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to compute multihash: %w", err)
	}

	return mh, nil
}

// MultihashCode returns the hash algorithm code embedded in an encoded
// multihash value.
func MultihashCode(encodedMultihash string) (uint64, error) {
	data, err := DecodeString(encodedMultihash)
	if err != nil {
		return 0, err
	}

	mh, err := multihash.Decode(data)
	if err != nil {
		return 0, sderr.New(sderr.MultihashNotSupported, "value is not a valid multihash: %v", err)
	}

	return mh.Code, nil
}

// IsSupportedMultihashCode reports whether the given multihash code is one the
// method accepts.
func IsSupportedMultihashCode(code uint64) bool {
	return code == Sha2_256
}

// IsComputedUsingSupportedHashAlgorithm reports whether the encoded value is a
// multihash computed with a supported algorithm.
func IsComputedUsingSupportedHashAlgorithm(encodedMultihash string) bool {
	code, err := MultihashCode(encodedMultihash)
	if err != nil {
		return false
	}
	return IsSupportedMultihashCode(code)
}

// CalculateUniqueSuffix computes the unique suffix for an encoded suffix-data
// payload: the multihash of the decoded bytes, re-encoded as Base64URL.
func CalculateUniqueSuffix(encodedSuffixData string, code uint64) (string, error) {
	data, err := DecodeString(encodedSuffixData)
	if err != nil {
		return "", err
	}

	mh, err := ComputeMultihash(code, data)
	if err != nil {
		return "", err
	}

	return EncodeToString(mh), nil
}
