package customhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer s.Close()

	cmd := New(WithHTTPClient(s.Client()), WithRequestLogging()).Build()

	req, err := http.NewRequest(http.MethodGet, s.URL+"/ping", nil)
	require.NoError(t, err)
	resp, err := cmd.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestWithTimeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer s.Close()

	cmd := New(WithTimeout(20*time.Millisecond), WithRequestLogging()).Build()

	req, err := http.NewRequest(http.MethodGet, s.URL, nil)
	require.NoError(t, err)
	_, err = cmd.Do(req)
	require.Error(t, err)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) middleware {
		return func(next httpCommandFunc) httpCommandFunc {
			return func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next(req)
			}
		}
	}
	final := func(req *http.Request) (*http.Response, error) {
		order = append(order, "final")
		return &http.Response{StatusCode: http.StatusOK}, nil
	}

	cmd := chainMiddleware(mark("first"), mark("second"))(final)
	req, err := http.NewRequest(http.MethodGet, "http://example.invalid", nil)
	require.NoError(t, err)
	_, err = cmd.Do(req)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second", "final"}, order)
}
