// Package document implements the document composer: strict validation of DID
// documents and patches, deterministic patch application, and transformation
// of resolved state into the externally published resolution result.
package document

import (
	"github.com/pilacorp/go-sidetree-sdk/common/jwk"
)

// Key types the method recognizes. Operation and recovery keys must use the
// secp256k1 type.
const (
	KeyTypeSecp256k1 = "EcdsaSecp256k1VerificationKey2019"
	KeyTypeJWS       = "JwsVerificationKey2020"
	KeyTypeEd25519   = "Ed25519VerificationKey2018"
)

// Key usages.
const (
	UsageOps     = "ops"
	UsageGeneral = "general"
	UsageAuth    = "auth"
)

const (
	maxIDLength              = 20
	maxUsageCount            = 3
	maxServiceTypeLength     = 30
	maxServiceEndpointLength = 100
)

// DocumentModel is the internal DID document state the composer operates on.
// Absence of either collection is valid and treated as empty.
type DocumentModel struct {
	PublicKeys       []PublicKey       `json:"publicKeys,omitempty"`
	ServiceEndpoints []ServiceEndpoint `json:"serviceEndpoints,omitempty"`
}

// PublicKey is one entry of a document's publicKeys collection. Key material
// is carried in exactly one of JWK, PublicKeyHex or PublicKeyPem; operation
// keys must use JWK.
type PublicKey struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Usage        []string `json:"usage,omitempty"`
	JWK          *jwk.JWK `json:"jwk,omitempty"`
	PublicKeyHex string   `json:"publicKeyHex,omitempty"`
	PublicKeyPem string   `json:"publicKeyPem,omitempty"`
}

// HasUsage reports whether the key carries the given usage.
func (k *PublicKey) HasUsage(usage string) bool {
	for _, u := range k.Usage {
		if u == usage {
			return true
		}
	}
	return false
}

// ServiceEndpoint is one entry of a document's serviceEndpoints collection.
type ServiceEndpoint struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// DidState is the resolved state for a unique suffix, produced by the
// resolution pipeline folding operations in chronological order. The composer
// never mutates a DidState, it only derives new values from it.
type DidState struct {
	Document                       DocumentModel `json:"document"`
	LastOperationTransactionNumber uint64        `json:"lastOperationTransactionNumber"`

	// NextRecoveryCommitmentHash empty signals deactivation.
	NextRecoveryCommitmentHash string   `json:"nextRecoveryCommitmentHash,omitempty"`
	NextUpdateCommitmentHash   string   `json:"nextUpdateCommitmentHash,omitempty"`
	RecoveryKey                *jwk.JWK `json:"recoveryKey,omitempty"`
}
