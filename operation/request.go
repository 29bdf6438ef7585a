package operation

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-sidetree-sdk/common/docutil"
	"github.com/pilacorp/go-sidetree-sdk/common/jwk"
	"github.com/pilacorp/go-sidetree-sdk/document"
)

const initialStateSeparator = "."

// NewCreateRequest builds the create operation request for an initial
// document. The document content travels as add patches inside the delta; the
// recovery key and commitments anchor future operations.
func NewCreateRequest(doc document.DocumentModel, recoveryKey *jwk.JWK, recoveryCommitment, updateCommitment string) (*CreateRequest, error) {
	if err := jwk.ValidateEs256k(recoveryKey); err != nil {
		return nil, err
	}

	var patches []document.Patch
	if len(doc.PublicKeys) > 0 {
		patches = append(patches, document.Patch{Action: document.ActionAddPublicKeys, PublicKeys: doc.PublicKeys})
	}
	if len(doc.ServiceEndpoints) > 0 {
		patches = append(patches, document.Patch{Action: document.ActionAddServiceEndpoints, ServiceEndpoints: doc.ServiceEndpoints})
	}
	if len(patches) == 0 {
		return nil, fmt.Errorf("initial document must contain at least one public key or service endpoint")
	}

	deltaBytes, err := json.Marshal(&DeltaModel{Patches: patches, UpdateCommitment: updateCommitment})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal delta: %w", err)
	}

	deltaHash, err := docutil.ComputeMultihash(docutil.Sha2_256, deltaBytes)
	if err != nil {
		return nil, err
	}

	suffixDataBytes, err := json.Marshal(&SuffixDataModel{
		DeltaHash:          docutil.EncodeToString(deltaHash),
		RecoveryKey:        recoveryKey,
		RecoveryCommitment: recoveryCommitment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suffix data: %w", err)
	}

	return &CreateRequest{
		Type:       TypeCreate,
		SuffixData: docutil.EncodeToString(suffixDataBytes),
		Delta:      docutil.EncodeToString(deltaBytes),
	}, nil
}

// UniqueSuffix computes the DID unique suffix for the request's suffix-data
// payload.
func (r *CreateRequest) UniqueSuffix() (string, error) {
	return docutil.CalculateUniqueSuffix(r.SuffixData, docutil.Sha2_256)
}

// InitialState returns the long-form query parameter value for the request.
func (r *CreateRequest) InitialState() string {
	return r.SuffixData + initialStateSeparator + r.Delta
}

// LongFormDID renders the self-certifying long-form DID string for the
// request under the given method name.
func (r *CreateRequest) LongFormDID(methodName string) (string, error) {
	suffix, err := r.UniqueSuffix()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("did:%s:%s?-%s-initial-state=%s", methodName, suffix, methodName, r.InitialState()), nil
}
