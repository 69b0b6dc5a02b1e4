package customhttp

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type middleware func(next httpCommandFunc) httpCommandFunc

func chainMiddleware(m ...middleware) middleware {
	return func(final httpCommandFunc) httpCommandFunc {
		last := final
		for i := len(m) - 1; i >= 0; i-- {
			last = m[i](last)
		}

		return func(req *http.Request) (resp *http.Response, err error) {
			return last(req)
		}
	}
}

func noOpsMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			return next(req)
		}
	}
}

// loggingMiddleware never logs headers, they carry bearer tokens.
func loggingMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			start := time.Now()
			resp, err = next(req)
			contextLogger := log.WithContext(req.Context()).WithFields(log.Fields{
				"method":  req.Method,
				"path":    req.URL.Path,
				"latency": time.Since(start).String(),
			})
			if err != nil {
				contextLogger.WithError(err).Warn("outbound request failed")
				return resp, err
			}
			contextLogger.WithField("status", resp.StatusCode).Debug("outbound request")
			return resp, nil
		}
	}
}
