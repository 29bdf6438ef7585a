package document

import (
	"crypto/sha256"
	"encoding/json"
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-sidetree-sdk/common/canonical"
)

func TestTransformToExternalDocumentDeactivated(t *testing.T) {
	state := &DidState{
		Document: DocumentModel{
			PublicKeys: []PublicKey{{ID: "k1", Type: KeyTypeSecp256k1, Usage: []string{"general"}}},
		},
		// No next recovery commitment: the DID is deactivated.
	}

	result := TransformToExternalDocument(state, "did:sidetree:abc")

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "deactivated"}`, string(data))
}

func TestTransformToExternalDocumentKeyPartition(t *testing.T) {
	recoveryKey := newTestJWK(t)
	opsKey := newTestJWK(t)

	state := &DidState{
		Document: DocumentModel{
			PublicKeys: []PublicKey{
				{ID: "op1", Type: KeyTypeSecp256k1, Usage: []string{UsageOps}, JWK: opsKey},
				{ID: "genAuth", Type: KeyTypeEd25519, Usage: []string{UsageGeneral, UsageAuth}},
				{ID: "authOnly", Type: KeyTypeEd25519, Usage: []string{UsageAuth}},
				{ID: "genOnly", Type: KeyTypeJWS, Usage: []string{UsageGeneral}},
			},
			ServiceEndpoints: []ServiceEndpoint{
				{ID: "hub", Type: "IdentityHub", ServiceEndpoint: "https://example.com/hub"},
			},
		},
		NextRecoveryCommitmentHash: "EiB-recovery",
		NextUpdateCommitmentHash:   "EiB-update",
		RecoveryKey:                recoveryKey,
	}

	didString := "did:sidetree:EiBsuffix"
	result := TransformToExternalDocument(state, didString)

	require.NotNil(t, result.DIDDocument)
	require.NotNil(t, result.MethodMetadata)
	assert.Empty(t, result.Status)
	assert.Equal(t, didString, result.DIDDocument.ID)
	assert.Equal(t, []interface{}{"https://www.w3.org/ns/did/v1"}, result.DIDDocument.Context)

	// Operation keys are published only under method metadata.
	require.Len(t, result.MethodMetadata.OperationPublicKeys, 1)
	assert.Equal(t, "#op1", result.MethodMetadata.OperationPublicKeys[0].ID)
	assert.Equal(t, "", result.MethodMetadata.OperationPublicKeys[0].Controller)
	assert.Equal(t, opsKey, result.MethodMetadata.OperationPublicKeys[0].PublicKeyJwk)
	assert.Equal(t, recoveryKey, result.MethodMetadata.RecoveryKey)

	// General-purpose keys render in full under publicKey.
	require.Len(t, result.DIDDocument.PublicKey, 2)
	assert.Equal(t, "#genAuth", result.DIDDocument.PublicKey[0].ID)
	assert.Equal(t, "#genOnly", result.DIDDocument.PublicKey[1].ID)

	// A general+auth key appears in authentication as a reference; an
	// auth-only key is embedded in full and not listed under publicKey.
	require.Len(t, result.DIDDocument.Authentication, 2)
	assert.Equal(t, "#genAuth", result.DIDDocument.Authentication[0])
	embedded, ok := result.DIDDocument.Authentication[1].(ExternalKey)
	require.True(t, ok)
	assert.Equal(t, "#authOnly", embedded.ID)

	require.Len(t, result.DIDDocument.Service, 1)
	assert.Equal(t, "hub", result.DIDDocument.Service[0].ID)
}

// stubContextLoader serves a fixed JSON-LD context for every URL so
// canonicalization never touches the network.
type stubContextLoader struct{}

func (stubContextLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	return &ld.RemoteDocument{
		DocumentURL: u,
		Document: map[string]interface{}{
			"@context": map[string]interface{}{
				"id":          "@id",
				"didDocument": map[string]interface{}{"@id": "https://example.com/vocab#didDocument"},
			},
		},
	}, nil
}

func TestResolutionResultCanonicalAndFingerprint(t *testing.T) {
	state := &DidState{
		Document: DocumentModel{
			PublicKeys: []PublicKey{{ID: "k1", Type: KeyTypeJWS, Usage: []string{UsageGeneral}}},
		},
		NextRecoveryCommitmentHash: "EiB-recovery",
	}

	result := TransformToExternalDocument(state, "did:sidetree:EiBabc")

	canonicalized, err := result.Canonical(canonical.WithDocumentLoader(stubContextLoader{}))
	require.NoError(t, err)
	assert.Contains(t, string(canonicalized), "did:sidetree:EiBabc")

	// Canonical output is stable across calls and is what the fingerprint
	// digests.
	again, err := result.Canonical(canonical.WithDocumentLoader(stubContextLoader{}))
	require.NoError(t, err)
	assert.Equal(t, canonicalized, again)

	fingerprint, err := result.Fingerprint(canonical.WithDocumentLoader(stubContextLoader{}))
	require.NoError(t, err)
	expected := sha256.Sum256(canonicalized)
	assert.Equal(t, expected[:], fingerprint)
}

func TestTransformToExternalDocumentNoServices(t *testing.T) {
	state := &DidState{
		Document: DocumentModel{
			PublicKeys: []PublicKey{{ID: "k1", Type: KeyTypeJWS, Usage: []string{UsageGeneral}}},
		},
		NextRecoveryCommitmentHash: "EiB-recovery",
	}

	result := TransformToExternalDocument(state, "did:sidetree:abc")

	require.NotNil(t, result.DIDDocument)
	assert.Nil(t, result.DIDDocument.Service)

	data, err := json.Marshal(result.DIDDocument)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"service"`)
}
