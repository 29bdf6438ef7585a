// Package canonical produces a stable canonical form of resolution results so
// that callers can fingerprint or compare resolved documents independent of
// JSON key ordering.
package canonical

import (
	"crypto/sha256"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// Opt represents an option for canonicalization.
type Opt func(*options)

type options struct {
	documentLoader ld.DocumentLoader
}

// WithDocumentLoader sets the loader used to fetch JSON-LD contexts.
func WithDocumentLoader(loader ld.DocumentLoader) Opt {
	return func(o *options) {
		o.documentLoader = loader
	}
}

// defaultDocumentLoader is a shared caching loader to prevent repeated context
// fetches across function calls.
var defaultDocumentLoader ld.DocumentLoader

func init() {
	innerLoader := ld.NewDefaultDocumentLoader(nil)
	defaultDocumentLoader = ld.NewCachingDocumentLoader(innerLoader)
}

// Canonicalize normalizes doc to URDNA2015 N-Quads.
func Canonicalize(doc map[string]interface{}, opts ...Opt) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	o := &options{documentLoader: defaultDocumentLoader}
	for _, opt := range opts {
		opt(o)
	}

	processor := ld.NewJsonLdProcessor()
	jsonldOptions := ld.NewJsonLdOptions("")
	jsonldOptions.Format = "application/n-quads"
	jsonldOptions.Algorithm = ld.AlgorithmURDNA2015
	jsonldOptions.DocumentLoader = o.documentLoader

	canonicalized, err := processor.Normalize(doc, jsonldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}

	return []byte(canonicalized.(string)), nil
}

// ComputeDigest computes the SHA-256 digest of the input data.
func ComputeDigest(data []byte) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("failed to compute digest: input data is nil")
	}
	hash := sha256.Sum256(data)
	return hash[:], nil
}
