package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lahirunirmalx/cOrange/internal/punch"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder("corange")

	r.Notify(punch.Outcome{Status: punch.StatusSuccess})
	r.Notify(punch.FailureOutcome("c1", punch.ReasonRejected, nil))
	r.Notify(punch.FailureOutcome("c2", punch.ReasonRejected, nil))
	r.DuplicateDispatch()

	assert.Equal(t, float64(1), testutil.ToFloat64(r.outcomes.WithLabelValues("success", "")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.outcomes.WithLabelValues("failure", "rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.rejected))

	s := httptest.NewServer(r.Handler())
	defer s.Close()
	resp, err := http.Get(s.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `corange_punch_outcomes_total{reason="rejected",status="failure"} 2`)
}
