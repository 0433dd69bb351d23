package defaults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-formstate/pkg/values"
)

const (
	// DefaultTimeout bounds a remote default fetch when none is configured.
	DefaultTimeout = 5 * time.Second
	// DefaultMaxBytes caps the response body read by an HTTPSource.
	DefaultMaxBytes int64 = 1 << 20
)

// ErrResponseTooLarge is returned when a response body exceeds the limit set
// by WithMaxBytes.
var ErrResponseTooLarge = errors.New("defaults source: response too large")

// HTTPSource fetches defaults from a JSON endpoint with a single GET.
//
// Without a mapping the decoded object is used as-is. With a mapping, each
// entry copies the value found at a dotted path of the response (for example
// "address.city") to a form path; entries whose response path is missing
// are skipped. Constant values can be supplied through Fixed.
type HTTPSource struct {
	url      string
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	mapping  map[string]string
	fixed    map[string]any
	header   http.Header
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient overrides the client used for the request.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds the request duration. Zero disables the bound.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.timeout = timeout
	}
}

// WithMaxBytes caps the response body size. Values below one keep
// DefaultMaxBytes.
func WithMaxBytes(n int64) HTTPOption {
	return func(s *HTTPSource) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithMapping selects response values by dotted path, keyed by form path.
func WithMapping(mapping map[string]string) HTTPOption {
	return func(s *HTTPSource) {
		s.mapping = make(map[string]string, len(mapping))
		for formPath, responsePath := range mapping {
			s.mapping[values.Normalize(formPath)] = responsePath
		}
	}
}

// WithFixed sets form paths to constant values alongside the mapped ones.
func WithFixed(fixed map[string]any) HTTPOption {
	return func(s *HTTPSource) {
		s.fixed = make(map[string]any, len(fixed))
		for formPath, value := range fixed {
			s.fixed[values.Normalize(formPath)] = value
		}
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) HTTPOption {
	return func(s *HTTPSource) {
		s.header.Add(key, value)
	}
}

// NewHTTPSource builds a Source reading defaults from url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	src := &HTTPSource{
		url:     url,
		client:  http.DefaultClient,
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxBytes,
		header:   make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(src)
		}
	}
	return src
}

// FetchDefaults performs the request and returns the partial default tree.
func (s *HTTPSource) FetchDefaults(ctx context.Context) (map[string]any, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("defaults source: decode response: %w", err)
	}
	if len(s.mapping) == 0 && len(s.fixed) == 0 {
		return decoded, nil
	}

	out := make(map[string]any)
	for formPath, responsePath := range s.mapping {
		value, ok := values.Get(decoded, responsePath)
		if !ok {
			continue
		}
		if err := values.Set(out, formPath, value); err != nil {
			return nil, fmt.Errorf("defaults source: map %s: %w", formPath, err)
		}
	}
	for formPath, value := range s.fixed {
		if err := values.Set(out, formPath, values.DeepCopy(value)); err != nil {
			return nil, fmt.Errorf("defaults source: fixed %s: %w", formPath, err)
		}
	}
	return out, nil
}

func (s *HTTPSource) load(ctx context.Context) ([]byte, error) {
	if s.url == "" {
		return nil, errors.New("defaults source: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if s.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for key, vals := range s.header {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("defaults source: unexpected status " + resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, s.maxBytes)
	}
	return data, nil
}
