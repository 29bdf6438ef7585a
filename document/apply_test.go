package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatchesReplaceOnCollision(t *testing.T) {
	doc := DocumentModel{
		PublicKeys: []PublicKey{
			{ID: "k1", Type: KeyTypeSecp256k1, Usage: []string{"general"}},
			{ID: "k2", Type: KeyTypeEd25519, Usage: []string{"auth"}},
		},
	}

	rotated := PublicKey{ID: "k1", Type: KeyTypeJWS, Usage: []string{"general"}}
	added := PublicKey{ID: "k3", Type: KeyTypeEd25519, Usage: []string{"auth"}}

	result := ApplyPatches(doc, []Patch{{Action: ActionAddPublicKeys, PublicKeys: []PublicKey{rotated, added}}})

	// Collision replaces in place and preserves position; new key is appended.
	require.Len(t, result.PublicKeys, 3)
	assert.Equal(t, rotated, result.PublicKeys[0])
	assert.Equal(t, "k2", result.PublicKeys[1].ID)
	assert.Equal(t, added, result.PublicKeys[2])

	// The input document is untouched.
	assert.Equal(t, KeyTypeSecp256k1, doc.PublicKeys[0].Type)
	assert.Len(t, doc.PublicKeys, 2)
}

func TestApplyPatchesRemovePublicKeys(t *testing.T) {
	doc := DocumentModel{
		PublicKeys: []PublicKey{
			{ID: "k1", Type: KeyTypeSecp256k1, Usage: []string{"general"}},
			{ID: "k2", Type: KeyTypeEd25519, Usage: []string{"auth"}},
		},
	}

	result := ApplyPatches(doc, []Patch{{Action: ActionRemovePublicKeys, PublicKeyIDs: []string{"k1", "missing"}}})

	require.Len(t, result.PublicKeys, 1)
	assert.Equal(t, "k2", result.PublicKeys[0].ID)
}

func TestApplyPatchesAddServiceEndpointsInitializesCollection(t *testing.T) {
	doc := DocumentModel{}
	svc := ServiceEndpoint{ID: "hub", Type: "IdentityHub", ServiceEndpoint: "https://example.com/hub"}

	result := ApplyPatches(doc, []Patch{{Action: ActionAddServiceEndpoints, ServiceEndpoints: []ServiceEndpoint{svc}}})

	require.Len(t, result.ServiceEndpoints, 1)
	assert.Equal(t, svc, result.ServiceEndpoints[0])
	assert.Nil(t, doc.ServiceEndpoints)
}

func TestApplyPatchesRemoveAbsentServiceEndpointsIsNoOp(t *testing.T) {
	doc := DocumentModel{
		PublicKeys: []PublicKey{{ID: "k1", Type: KeyTypeSecp256k1, Usage: []string{"general"}}},
	}

	result := ApplyPatches(doc, []Patch{{Action: ActionRemoveServiceEndpoints, ServiceEndpointIDs: []string{"hub"}}})

	before, err := json.Marshal(doc)
	require.NoError(t, err)
	after, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Nil(t, result.ServiceEndpoints)
}

func TestApplyPatchesRemoveServiceEndpointIgnoresUnmatchedIDs(t *testing.T) {
	svc := ServiceEndpoint{ID: "hub", Type: "IdentityHub", ServiceEndpoint: "https://example.com/hub"}
	doc := DocumentModel{ServiceEndpoints: []ServiceEndpoint{svc}}

	result := ApplyPatches(doc, []Patch{{Action: ActionRemoveServiceEndpoints, ServiceEndpointIDs: []string{"other"}}})
	assert.Equal(t, doc.ServiceEndpoints, result.ServiceEndpoints)

	result = ApplyPatches(doc, []Patch{{Action: ActionRemoveServiceEndpoints, ServiceEndpointIDs: []string{"hub"}}})
	assert.Empty(t, result.ServiceEndpoints)
	assert.Len(t, doc.ServiceEndpoints, 1)
}

// Applying validated patches to a valid document always yields a document the
// validator accepts again.
func TestApplyPatchesOutputRevalidates(t *testing.T) {
	doc, err := ParseDocument([]byte(validDocJSON))
	require.NoError(t, err)

	patches, err := ParsePatches([]byte(`[
		{"action": "add-public-keys", "publicKeys": [{"id": "key3", "type": "Ed25519VerificationKey2018", "usage": ["auth"]}]},
		{"action": "remove-public-keys", "publicKeys": ["key2"]},
		{"action": "add-service-endpoints", "serviceEndpoints": [{"id": "agent", "type": "AgentService", "serviceEndpoint": "https://example.com/agent"}]}
	]`))
	require.NoError(t, err)

	result := ApplyPatches(*doc, patches)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	revalidated, err := ParseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, result, *revalidated)
}
