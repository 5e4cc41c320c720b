package admina

import (
	"context"
	"fmt"
	"sync"

	"github.com/admina-mcp/admina-mcp/internal/domain"
)

// CredentialsLoader reads the credentials, typically from the environment.
type CredentialsLoader func() (Credentials, error)

// Provider holds the process-wide Client. The client is created on first use
// from the loader and reused afterwards; Reset discards it so the next use
// reads the configuration again.
type Provider struct {
	mu     sync.Mutex
	client *Client
	load   CredentialsLoader
	opts   []Option
}

// NewProvider returns a Provider that builds its Client lazily.
func NewProvider(load CredentialsLoader, opts ...Option) *Provider {
	return &Provider{load: load, opts: opts}
}

// Client returns the shared Client, creating it on first use.
func (p *Provider) Client() (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	creds, err := p.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMissingConfig, err)
	}
	client, err := New(creds, p.opts...)
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

// Reset clears the shared Client. Intended for test isolation.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = nil
}

// Call implements usecase.APICaller using the shared Client.
func (p *Provider) Call(ctx context.Context, endpoint string, query domain.Query, method string, body any) (any, error) {
	client, err := p.Client()
	if err != nil {
		return nil, err
	}
	return client.Call(ctx, endpoint, query, method, body)
}
