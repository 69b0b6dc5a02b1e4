package orangehrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/lahirunirmalx/cOrange/internal/buffer"
	"github.com/lahirunirmalx/cOrange/internal/credential"
)

// FetchToken exchanges creds for an access token and returns a copy of creds
// carrying it. An unknown grant type fails before any network call.
func (c *client) FetchToken(ctx context.Context, creds credential.Credentials) (credential.Credentials, error) {
	contextLogger := log.WithContext(ctx)

	form, err := tokenForm(creds)
	if err != nil {
		contextLogger.WithError(err).Errorf("Invalid grant type: %s", creds.GrantType)
		return creds, err
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.BaseURL+TokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return creds, &TokenError{Kind: ErrTransportFailure, Err: err}
	}
	httpRequest.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpRequest.Header.Set("Accept", "application/json")

	resp, err := c.HTTPCommand.Do(httpRequest)
	if err != nil {
		contextLogger.WithError(err).Errorf("there was an error calling the orangehrm token API. %v", err)
		return creds, &TokenError{Kind: ErrTransportFailure, Err: err}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			contextLogger.WithError(err).Warn("Error when closing token response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		contextLogger.Infof("status returned from orangehrm token service %s ", resp.Status)
	}

	buf, err := buffer.New(c.TokenSize)
	if err != nil {
		return creds, &TokenError{Kind: ErrTransportFailure, Err: err}
	}
	defer buf.Release()

	if _, err := io.Copy(buf, resp.Body); err != nil {
		contextLogger.WithError(err).Errorf("error reading orangehrm token resp body")
		return creds, &TokenError{Kind: ErrTransportFailure, Err: err}
	}

	var payload TokenResponse
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		contextLogger.WithError(err).Errorf("there was an error un marshalling the token resp. %v", err)
		return creds, &TokenError{Kind: ErrMalformedResponse, Err: err}
	}
	if payload.AccessToken == nil || *payload.AccessToken == "" {
		err := errors.New("access_token not found in response")
		contextLogger.WithError(err).Error("Error fetching the access token")
		return creds, &TokenError{Kind: ErrMalformedResponse, Err: err}
	}

	refreshed := creds.WithAccessToken(*payload.AccessToken)
	if payload.RefreshToken != nil {
		refreshed.RefreshToken = *payload.RefreshToken
	}
	contextLogger.WithField("grant_type", creds.GrantType).Debug("access token issued")
	return refreshed, nil
}

func tokenForm(creds credential.Credentials) (url.Values, error) {
	data := url.Values{}
	switch creds.GrantType {
	case credential.GrantClientCredentials:
		data.Set("grant_type", string(credential.GrantClientCredentials))
	case credential.GrantPassword:
		data.Set("grant_type", string(credential.GrantPassword))
		data.Set("username", creds.Username)
		data.Set("password", creds.Password)
	default:
		return nil, &TokenError{Kind: ErrInvalidGrantType, Err: fmt.Errorf("%q", creds.GrantType)}
	}
	data.Set("client_id", creds.ClientID)
	data.Set("client_secret", creds.ClientSecret)
	return data, nil
}
