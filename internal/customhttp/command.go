package customhttp

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds every call made through a built HTTPCommand.
const DefaultTimeout = 30 * time.Second

type HTTPCommand interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

type httpCommandFunc func(req *http.Request) (resp *http.Response, err error)

func (h httpCommandFunc) Do(req *http.Request) (resp *http.Response, err error) {
	return h(req)
}

type HTTPCommandBuilder struct {
	client      HTTPCommand
	middlewares []middleware
}

func New(options ...func(*HTTPCommandBuilder)) *HTTPCommandBuilder {
	builder := &HTTPCommandBuilder{
		client:      &http.Client{Timeout: DefaultTimeout},
		middlewares: []middleware{noOpsMiddleware()},
	}

	for _, option := range options {
		option(builder)
	}
	return builder
}

func (b *HTTPCommandBuilder) Build() HTTPCommand {
	mw := chainMiddleware(b.middlewares...)
	return mw(b.client.Do)
}

// WithHTTPClient allows the user to supply their own http.Client
func WithHTTPClient(client HTTPCommand) func(*HTTPCommandBuilder) {
	return func(builder *HTTPCommandBuilder) {
		builder.client = client
	}
}

// WithTimeout replaces the client with a default http.Client bounded by d.
func WithTimeout(d time.Duration) func(*HTTPCommandBuilder) {
	return func(builder *HTTPCommandBuilder) {
		if d <= 0 {
			d = DefaultTimeout
		}
		builder.client = &http.Client{Timeout: d}
	}
}

// WithRequestLogging logs method, URL, status and latency of every call.
func WithRequestLogging() func(*HTTPCommandBuilder) {
	return func(builder *HTTPCommandBuilder) {
		builder.middlewares = append(builder.middlewares, loggingMiddleware())
	}
}
