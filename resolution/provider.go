// Package resolution provides the client-side provider for fetching
// resolution results from a method node. The node itself (ledger observation,
// operation store, version chronology) is an external collaborator.
package resolution

import (
	"context"

	"github.com/pilacorp/go-sidetree-sdk/document"
)

// Provider defines the interface for resolving a DID string into a resolution
// result. Custom implementations can be injected into higher-level logic.
type Provider interface {
	// Resolve resolves a DID string into a resolution result.
	Resolve(ctx context.Context, did string) (*document.ResolutionResult, error)
}
