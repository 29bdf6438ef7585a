package resolution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-sidetree-sdk/common/sderr"
	"github.com/pilacorp/go-sidetree-sdk/did"
	"github.com/pilacorp/go-sidetree-sdk/did/config"
	"github.com/pilacorp/go-sidetree-sdk/document"
	"github.com/pilacorp/go-sidetree-sdk/operation"
)

func newTestResult(didString string) *document.ResolutionResult {
	return document.TransformToExternalDocument(&document.DidState{
		Document: document.DocumentModel{
			PublicKeys: []document.PublicKey{
				{ID: "k1", Type: document.KeyTypeJWS, Usage: []string{document.UsageGeneral}},
			},
		},
		NextRecoveryCommitmentHash: "EiB-recovery",
	}, didString)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		didString, err := url.PathUnescape(r.URL.Path[len("/identifiers/"):])
		require.NoError(t, err)

		if didString == "did:sidetree:missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(newTestResult(didString)))
	}))
}

func TestDefaultProviderResolve(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	provider := NewDefaultProvider(server.URL, nil)

	result, err := provider.Resolve(context.Background(), "did:sidetree:EiBabc")
	require.NoError(t, err)
	require.NotNil(t, result.DIDDocument)
	assert.Equal(t, "did:sidetree:EiBabc", result.DIDDocument.ID)
}

func TestDefaultProviderResolveNon200(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	provider := NewDefaultProvider(server.URL, nil)

	_, err := provider.Resolve(context.Background(), "did:sidetree:missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
}

func TestDefaultProviderRejectsInvalidDIDLocally(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	opParser, err := operation.NewParser()
	require.NoError(t, err)
	provider := NewDefaultProvider(server.URL, did.NewParser("sidetree", opParser))

	_, err = provider.Resolve(context.Background(), "did:wrong:abc")
	require.Error(t, err)
	assert.Zero(t, requests, "malformed DID must not reach the node")
}

func TestNewDefaultProviderFromEnv(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	t.Setenv(config.EnvResolverURL, server.URL)
	t.Setenv(config.EnvMethodName, "sidetree")

	provider, err := NewDefaultProviderFromEnv()
	require.NoError(t, err)

	result, err := provider.Resolve(context.Background(), "did:sidetree:EiBabc")
	require.NoError(t, err)
	require.NotNil(t, result.DIDDocument)
	assert.Equal(t, "did:sidetree:EiBabc", result.DIDDocument.ID)

	// The configured method name drives local DID verification.
	_, err = provider.Resolve(context.Background(), "did:other:EiBabc")
	require.Error(t, err)
	assert.Equal(t, sderr.DidIncorrectPrefix, sderr.CodeOf(err))
}

func TestResolveBatch(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	provider := NewDefaultProvider(server.URL, nil)
	dids := []string{"did:sidetree:a", "did:sidetree:b", "did:sidetree:c"}

	results, err := ResolveBatch(context.Background(), provider, dids)
	require.NoError(t, err)
	require.Len(t, results, len(dids))
	for i, result := range results {
		require.NotNil(t, result.DIDDocument)
		assert.Equal(t, dids[i], result.DIDDocument.ID)
	}
}

func TestResolveBatchPropagatesFailure(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	provider := NewDefaultProvider(server.URL, nil)

	_, err := ResolveBatch(context.Background(), provider, []string{"did:sidetree:a", "did:sidetree:missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did:sidetree:missing")
}
