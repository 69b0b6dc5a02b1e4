package orangehrm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/lahirunirmalx/cOrange/internal/buffer"
	"github.com/lahirunirmalx/cOrange/internal/credential"
)

var errUnknownMethod = errors.New("unknown HTTP method")

// Do issues method against creds.BaseURL+path with the bearer token in creds.
// A non-nil body is sent as JSON. The status code is not interpreted: callers
// inspect the returned body. The caller owns the returned buffer.
func (c *client) Do(ctx context.Context, method Method, path string, body []byte, creds credential.Credentials) (*buffer.Buffer, error) {
	contextLogger := log.WithContext(ctx).WithFields(log.Fields{
		"method": method.String(),
		"path":   path,
	})

	if !creds.Authenticated() {
		contextLogger.Error("No access token available. Fetch a token first.")
		return nil, &RequestError{Kind: ErrUnauthenticated, Method: method, Path: path}
	}
	if !method.valid() {
		return nil, &RequestError{Kind: ErrTransportFailure, Method: method, Path: path, Err: errUnknownMethod}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpRequest, err := http.NewRequestWithContext(ctx, method.String(), creds.BaseURL+path, reader)
	if err != nil {
		return nil, &RequestError{Kind: ErrTransportFailure, Method: method, Path: path, Err: err}
	}
	httpRequest.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	httpRequest.Header.Set("Accept", "application/json")
	if body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPCommand.Do(httpRequest)
	if err != nil {
		contextLogger.WithError(err).Errorf("there was an error calling the orangehrm API. %v", err)
		return nil, &RequestError{Kind: ErrTransportFailure, Method: method, Path: path, Err: err}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			contextLogger.WithError(err).Warn("Error when closing response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		contextLogger.Infof("status returned from orangehrm service %s ", resp.Status)
	}

	buf, err := buffer.New(c.ResponseSize)
	if err != nil {
		return nil, &RequestError{Kind: ErrTransportFailure, Method: method, Path: path, Err: err}
	}
	if _, err := io.Copy(buf, resp.Body); err != nil {
		buf.Release()
		contextLogger.WithError(err).Errorf("error reading orangehrm API resp body")
		return nil, &RequestError{Kind: ErrTransportFailure, Method: method, Path: path, Err: err}
	}

	return buf, nil
}
