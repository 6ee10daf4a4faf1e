// Package provider is the boundary to text completion services.
package provider

import "context"

// CompletionClient sends a prompt to a model and returns its candidates.
type CompletionClient interface {
	// Complete blocks until the service answers or ctx is done.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name identifies the provider, e.g. "openai".
	Name() string
}
