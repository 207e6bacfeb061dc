package resolver

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rfestag/holoconf/herr"
	"github.com/rfestag/holoconf/value"
)

// HTTPConfig holds the Config-level defaults and allow-list the http/https
// resolvers are bound to (spec §4.2). A per-call timeout kwarg overrides
// DefaultTimeout; the other fields have no per-call override.
type HTTPConfig struct {
	Enabled        bool
	AllowedGlobs   []string
	DefaultTimeout time.Duration
	CABundle       *x509.CertPool
	ClientCert     *tls.Certificate
	Headers        map[string]string
}

type httpConfigKey struct{}

// WithHTTPConfig attaches an HTTPConfig to rc.
func (rc *Context) WithHTTPConfig(c *HTTPConfig) *Context {
	if rc.extra == nil {
		rc.extra = map[any]any{}
	}

	rc.extra[httpConfigKey{}] = c

	return rc
}

func (rc *Context) httpConfig() *HTTPConfig {
	if rc.extra == nil {
		return nil
	}

	c, _ := rc.extra[httpConfigKey{}].(*HTTPConfig)

	return c
}

// HTTP implements the "http" resolver: "${http:URL, timeout=...,
// insecure=false, parse=auto}". Request headers come only from
// [HTTPConfig].Headers; there is no per-call header kwarg. It never retries; a
// failed request surfaces its cause unless the Call declares a default
// (spec §5 "Blocking").
func HTTP(ctx context.Context, rc *Context, args Args) (*value.Value, error) {
	return doHTTP(ctx, rc, args, "http")
}

// HTTPS implements the "https" resolver: identical to [HTTP] except its
// default scheme, per spec §4.2 "identical contracts, differing only in
// default scheme".
func HTTPS(ctx context.Context, rc *Context, args Args) (*value.Value, error) {
	return doHTTP(ctx, rc, args, "https")
}

// normalizeURLScheme implements the URL-prefixed shorthand (spec §4.1): a
// body beginning with "//" has the slashes stripped, a body beginning with
// "http://" or "https://" has the scheme stripped, and in every case the
// resolver's own scheme is then prepended — so "${https://example.com}" and
// "${https:example.com}" both reach the network as "https://example.com".
func normalizeURLScheme(raw, scheme string) string {
	switch {
	case strings.HasPrefix(raw, "http://"):
		raw = strings.TrimPrefix(raw, "http://")
	case strings.HasPrefix(raw, "https://"):
		raw = strings.TrimPrefix(raw, "https://")
	case strings.HasPrefix(raw, "//"):
		raw = strings.TrimPrefix(raw, "//")
	}

	return scheme + "://" + raw
}

func doHTTP(ctx context.Context, rc *Context, args Args, scheme string) (*value.Value, error) {
	cfg := rc.httpConfig()
	if cfg == nil || !cfg.Enabled {
		return nil, &herr.ResolverError{
			Resolver: scheme,
			Path:     rc.Path,
			Cause:    fmt.Errorf("http/https resolvers are disabled for this config"),
		}
	}

	rawURL, err := args.String(0, rc.Path)
	if err != nil {
		return nil, err
	}

	url := normalizeURLScheme(rawURL, scheme)

	if !allowed(cfg.AllowedGlobs, url) {
		return nil, &herr.ResolverError{
			Resolver: scheme,
			Path:     rc.Path,
			Cause:    fmt.Errorf("%q does not match the configured allow-list", url),
		}
	}

	timeout := cfg.DefaultTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	if s, ok, _ := args.KwargString("timeout", rc.Path); ok {
		if secs, err := strconv.Atoi(s); err == nil {
			timeout = time.Duration(secs) * time.Second
		}
	}

	insecure, err := boolKwarg(args, "insecure", false, rc.Path)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: insecure, //nolint:gosec // explicit per-call opt-in, spec §4.2
			RootCAs:            cfg.CABundle,
		},
	}

	if cfg.ClientCert != nil {
		transport.TLSClientConfig.Certificates = []tls.Certificate{*cfg.ClientCert}
	}

	client := &http.Client{Transport: transport, Timeout: timeout}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &herr.ResolverError{Resolver: scheme, Path: rc.Path, Cause: err}
	}

	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &herr.ResolverError{Resolver: scheme, Path: rc.Path, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &herr.ResolverError{Resolver: scheme, Path: rc.Path, Cause: err}
	}

	if resp.StatusCode >= 400 {
		return nil, &herr.ResolverError{
			Resolver: scheme,
			Path:     rc.Path,
			Cause:    fmt.Errorf("%s: HTTP %d", url, resp.StatusCode),
		}
	}

	parseMode, _, err := args.KwargString("parse", rc.Path)
	if err != nil {
		return nil, err
	}

	if parseMode == "" {
		parseMode = "auto"
	}

	return parseFileContents(body, url, parseMode, rc.Path)
}

func allowed(globs []string, url string) bool {
	if len(globs) == 0 {
		return true
	}

	for _, g := range globs {
		if ok, err := path.Match(g, url); err == nil && ok {
			return true
		}
	}

	return false
}
