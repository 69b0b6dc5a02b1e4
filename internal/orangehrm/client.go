// Package orangehrm talks to the OrangeHRM REST API: OAuth2 token issue and
// bearer authenticated requests relative to the configured base URL.
package orangehrm

import (
	"context"

	"github.com/lahirunirmalx/cOrange/internal/buffer"
	"github.com/lahirunirmalx/cOrange/internal/credential"
	"github.com/lahirunirmalx/cOrange/internal/customhttp"
)

const (
	TokenPath      = "/oauth/issueToken"
	AttendancePath = "/api/attendanceRecords"

	// TokenBufferSize bounds a token payload.
	TokenBufferSize = 100 * 1024
	// ResponseBufferSize bounds an API response body.
	ResponseBufferSize = 1024 * 1000
)

type ClientInterface interface {
	FetchToken(ctx context.Context, creds credential.Credentials) (credential.Credentials, error)
	Do(ctx context.Context, method Method, path string, body []byte, creds credential.Credentials) (*buffer.Buffer, error)
}

func NewClient(c customhttp.HTTPCommand) *client {
	return &client{
		HTTPCommand:  c,
		TokenSize:    TokenBufferSize,
		ResponseSize: ResponseBufferSize,
	}
}

type client struct {
	HTTPCommand  customhttp.HTTPCommand
	TokenSize    int
	ResponseSize int
}

func (c *client) Get(ctx context.Context, path string, creds credential.Credentials) (*buffer.Buffer, error) {
	return c.Do(ctx, MethodGet, path, nil, creds)
}

func (c *client) Post(ctx context.Context, path string, body []byte, creds credential.Credentials) (*buffer.Buffer, error) {
	return c.Do(ctx, MethodPost, path, body, creds)
}

func (c *client) Put(ctx context.Context, path string, body []byte, creds credential.Credentials) (*buffer.Buffer, error) {
	return c.Do(ctx, MethodPut, path, body, creds)
}

func (c *client) Patch(ctx context.Context, path string, body []byte, creds credential.Credentials) (*buffer.Buffer, error) {
	return c.Do(ctx, MethodPatch, path, body, creds)
}

func (c *client) Delete(ctx context.Context, path string, creds credential.Credentials) (*buffer.Buffer, error) {
	return c.Do(ctx, MethodDelete, path, nil, creds)
}
