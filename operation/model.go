// Package operation models the method's operation requests and parses create
// operations, including the synthetic create requests embedded in long-form
// DID strings.
package operation

import (
	"github.com/pilacorp/go-sidetree-sdk/common/jwk"
	"github.com/pilacorp/go-sidetree-sdk/document"
)

// Type defines an operation type.
type Type string

// Operation types anchored by the method.
const (
	TypeCreate     Type = "create"
	TypeUpdate     Type = "update"
	TypeRecover    Type = "recover"
	TypeDeactivate Type = "deactivate"
)

// CreateRequest is the wire form of a create operation: the operation type
// plus the Base64URL-encoded suffix-data and delta payloads.
type CreateRequest struct {
	Type       Type   `json:"type"`
	SuffixData string `json:"suffix_data"`
	Delta      string `json:"delta"`
}

// SuffixDataModel is the decoded suffix-data payload. Its hash is the DID's
// unique suffix.
type SuffixDataModel struct {
	// DeltaHash is the multihash of the delta payload.
	DeltaHash string `json:"delta_hash"`

	// RecoveryKey is the public key authorized for recovery operations.
	RecoveryKey *jwk.JWK `json:"recovery_key"`

	// RecoveryCommitment is the commitment hash for the next recovery or
	// deactivate operation.
	RecoveryCommitment string `json:"recovery_commitment"`
}

// DeltaModel is the decoded delta payload: the document patches plus the
// commitment for the next update.
type DeltaModel struct {
	Patches          []document.Patch `json:"patches"`
	UpdateCommitment string           `json:"update_commitment"`
}

// CreateOperation is a fully parsed and validated create operation.
type CreateOperation struct {
	// OperationBuffer is the original request bytes.
	OperationBuffer []byte

	// EncodedSuffixData and EncodedDelta are the request's raw encoded
	// payloads, retained for suffix computation.
	EncodedSuffixData string
	EncodedDelta      string

	SuffixData *SuffixDataModel
	Delta      *DeltaModel
}
