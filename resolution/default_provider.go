package resolution

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-sidetree-sdk/did"
	"github.com/pilacorp/go-sidetree-sdk/did/config"
	"github.com/pilacorp/go-sidetree-sdk/document"
	"github.com/pilacorp/go-sidetree-sdk/operation"
)

type defaultProvider struct {
	baseURL string
	client  *http.Client
	parser  *did.Parser
}

// NewDefaultProvider creates a provider that resolves DIDs against the node
// at baseURL. When parser is non-nil, DID strings are parsed and verified
// locally before any network call, so malformed or inconsistent long-form
// strings never reach the node.
func NewDefaultProvider(baseURL string, parser *did.Parser) Provider {
	return &defaultProvider{
		baseURL: baseURL,
		parser:  parser,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// NewDefaultProviderFromEnv creates a provider for the resolver node and DID
// method configured through the environment (see the did/config package). DID
// strings are always parsed and verified locally before resolution.
func NewDefaultProviderFromEnv() (Provider, error) {
	opParser, err := operation.NewParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create operation parser: %w", err)
	}

	return NewDefaultProvider(config.ResolverURL(), did.NewParser(config.MethodName(), opParser)), nil
}

func (p *defaultProvider) Resolve(ctx context.Context, didString string) (*document.ResolutionResult, error) {
	if p.parser != nil {
		if _, err := p.parser.Parse(didString); err != nil {
			return nil, fmt.Errorf("invalid DID string: %w", err)
		}
	}

	apiURL := p.baseURL + "/identifiers/" + url.PathEscape(didString)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build resolution request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request to resolver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolver returned non-200 status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolver response body: %w", err)
	}

	var result document.ResolutionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resolution result JSON: %w", err)
	}

	return &result, nil
}

// ResolveBatch resolves multiple DIDs concurrently, preserving input order in
// the results. The first failure cancels the remaining resolutions.
func ResolveBatch(ctx context.Context, provider Provider, dids []string) ([]*document.ResolutionResult, error) {
	results := make([]*document.ResolutionResult, len(dids))

	g, ctx := errgroup.WithContext(ctx)
	for i, d := range dids {
		g.Go(func() error {
			result, err := provider.Resolve(ctx, d)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", d, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
