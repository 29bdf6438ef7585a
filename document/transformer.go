package document

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-sidetree-sdk/common/canonical"
	"github.com/pilacorp/go-sidetree-sdk/common/jwk"
)

const (
	didResolutionContext = "https://www.w3.org/ns/did-resolution/v1"
	didDocumentContext   = "https://www.w3.org/ns/did/v1"

	// StatusDeactivated is the status returned for a deactivated DID.
	StatusDeactivated = "deactivated"
)

// ResolutionResult is the externally published shape of a resolved DID.
// A deactivated DID carries only the status field.
type ResolutionResult struct {
	Context        interface{}       `json:"@context,omitempty"`
	DIDDocument    *ExternalDocument `json:"didDocument,omitempty"`
	MethodMetadata *MethodMetadata   `json:"methodMetadata,omitempty"`
	Status         string            `json:"status,omitempty"`
}

// ExternalDocument is the W3C-shaped DID document inside a resolution
// result.
type ExternalDocument struct {
	Context        []interface{}     `json:"@context"`
	ID             string            `json:"id"`
	PublicKey      []ExternalKey     `json:"publicKey,omitempty"`
	Authentication []interface{}     `json:"authentication,omitempty"`
	Service        []ServiceEndpoint `json:"service,omitempty"`
}

// ExternalKey is the full-object rendering of a public key in the external
// document.
type ExternalKey struct {
	ID           string   `json:"id"`
	Controller   string   `json:"controller"`
	Type         string   `json:"type"`
	PublicKeyJwk *jwk.JWK `json:"publicKeyJwk,omitempty"`
	PublicKeyHex string   `json:"publicKeyHex,omitempty"`
}

// MethodMetadata carries the method-specific portion of a resolution result.
type MethodMetadata struct {
	OperationPublicKeys []ExternalKey `json:"operationPublicKeys,omitempty"`
	RecoveryKey         *jwk.JWK      `json:"recoveryKey,omitempty"`
}

// TransformToExternalDocument maps resolved internal state to the external
// resolution result for the given DID string.
//
// Key rendering rules:
//   - ops usage: rendered under methodMetadata.operationPublicKeys.
//   - general usage: rendered in full under didDocument.publicKey; if the key
//     also has auth usage it appears in authentication as a "#id" reference.
//   - auth-only usage: rendered as a full embedded object in authentication
//     and not under publicKey.
func TransformToExternalDocument(state *DidState, didString string) *ResolutionResult {
	if state.NextRecoveryCommitmentHash == "" {
		// Absent next recovery commitment is the deactivation tombstone.
		return &ResolutionResult{Status: StatusDeactivated}
	}

	var publicKeys []ExternalKey
	var operationPublicKeys []ExternalKey
	var authentication []interface{}

	for _, key := range state.Document.PublicKeys {
		relativeID := "#" + key.ID

		external := ExternalKey{
			ID:           relativeID,
			Controller:   "",
			Type:         key.Type,
			PublicKeyJwk: key.JWK,
			PublicKeyHex: key.PublicKeyHex,
		}

		if key.HasUsage(UsageOps) {
			operationPublicKeys = append(operationPublicKeys, external)
		}

		if key.HasUsage(UsageGeneral) {
			publicKeys = append(publicKeys, external)
			if key.HasUsage(UsageAuth) {
				authentication = append(authentication, relativeID)
			}
		} else if key.HasUsage(UsageAuth) {
			authentication = append(authentication, external)
		}
	}

	return &ResolutionResult{
		Context: didResolutionContext,
		DIDDocument: &ExternalDocument{
			Context:        []interface{}{didDocumentContext},
			ID:             didString,
			PublicKey:      publicKeys,
			Authentication: authentication,
			Service:        state.Document.ServiceEndpoints,
		},
		MethodMetadata: &MethodMetadata{
			OperationPublicKeys: operationPublicKeys,
			RecoveryKey:         state.RecoveryKey,
		},
	}
}

// Canonical returns the canonical N-Quads form of the resolution result,
// suitable for fingerprinting and comparison across resolvers.
func (r *ResolutionResult) Canonical(opts ...canonical.Opt) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resolution result: %w", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode resolution result: %w", err)
	}

	return canonical.Canonicalize(m, opts...)
}

// Fingerprint returns the SHA-256 digest of the canonical form, a compact
// value two resolvers can exchange to confirm they resolved the same state.
func (r *ResolutionResult) Fingerprint(opts ...canonical.Opt) ([]byte, error) {
	canonicalized, err := r.Canonical(opts...)
	if err != nil {
		return nil, err
	}

	return canonical.ComputeDigest(canonicalized)
}
