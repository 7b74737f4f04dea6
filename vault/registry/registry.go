// Package registry is the write-only client for the external metadata
// registry. The vault publishes descriptive metadata (name, symbol, uri)
// keyed by asset at creation time and never reads it back; serving metadata
// is the registry's business.
package registry

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/nottyhq/notty/lib/errors"
)

// Registry is the interface to the external metadata registry.
type Registry interface {
	// Register publishes the descriptive metadata for the provided asset
	// id. Registration failures abort the enclosing operation.
	Register(
		ctx context.Context,
		asset string,
		name string,
		symbol string,
		uri string,
	) error
}

// ContextKey is the type of the key used with context to carry the
// contextual registry.
type ContextKey string

const (
	// registryKey the context.Context key to store the registry.
	registryKey ContextKey = "registry.registry"
)

// With stores the registry in the provided context.
func With(
	ctx context.Context,
	registry Registry,
) context.Context {
	return context.WithValue(ctx, registryKey, registry)
}

// Get returns the registry currently stored in the context.
func Get(
	ctx context.Context,
) Registry {
	return ctx.Value(registryKey).(Registry)
}

type middleware struct {
	http.Handler
	Registry
}

// ServeHTTP handles incoming HTTP requests and injects the current registry
// in their context.
func (m middleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := r.Context()
	withRegistry := With(ctx, m.Registry)
	m.Handler.ServeHTTP(w, r.WithContext(withRegistry))
}

// Middleware returns a middleware that injects the specified registry in
// requests.
func Middleware(
	registry Registry,
) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return middleware{h, registry}
	}
}

// NopRegistry is a Registry implementation that accepts every registration
// without publishing anywhere. Used when no registry URL is configured.
type NopRegistry struct{}

// Register implements Registry as a no-op.
func (r NopRegistry) Register(
	ctx context.Context,
	asset string,
	name string,
	symbol string,
	uri string,
) error {
	return nil
}

// HTTPRegistry is the Registry implementation POSTing metadata to a
// configured registry URL.
type HTTPRegistry struct {
	URL    string
	Client *http.Client
}

// NewHTTPRegistry constructs a registry client for the provided URL.
func NewHTTPRegistry(
	url string,
) *HTTPRegistry {
	return &HTTPRegistry{
		URL:    url,
		Client: &http.Client{},
	}
}

// Register implements Registry by POSTing the metadata form to
// `{URL}/metadata/{asset}`.
func (r *HTTPRegistry) Register(
	ctx context.Context,
	asset string,
	name string,
	symbol string,
	uri string,
) error {
	params := url.Values{
		"name":   {name},
		"symbol": {symbol},
		"uri":    {uri},
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		r.URL+"/metadata/"+asset,
		strings.NewReader(params.Encode()))
	if err != nil {
		return errors.Trace(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := r.Client.Do(req)
	if err != nil {
		return errors.Trace(err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return errors.Trace(errors.Newf(
			"Registry returned unexpected status: %d", res.StatusCode))
	}

	return nil
}
