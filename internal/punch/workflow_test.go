package punch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lahirunirmalx/cOrange/internal/buffer"
	"github.com/lahirunirmalx/cOrange/internal/credential"
	"github.com/lahirunirmalx/cOrange/internal/customhttp"
	"github.com/lahirunirmalx/cOrange/internal/journal"
	"github.com/lahirunirmalx/cOrange/internal/orangehrm"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) FetchToken(ctx context.Context, creds credential.Credentials) (credential.Credentials, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(credential.Credentials), args.Error(1)
}

func (m *MockClient) Do(ctx context.Context, method orangehrm.Method, path string, body []byte, creds credential.Credentials) (*buffer.Buffer, error) {
	args := m.Called(ctx, method, path, body, creds)
	buf, _ := args.Get(0).(*buffer.Buffer)
	return buf, args.Error(1)
}

type memoryJournal struct {
	mu      sync.Mutex
	entries []string
}

func (j *memoryJournal) Record(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, message)
}

func (j *memoryJournal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

var (
	testZone = time.FixedZone("IST", 5*3600+1800)
	t0       = time.Date(2024, 5, 6, 9, 0, 0, 0, testZone)
	creds    = credential.Credentials{
		BaseURL:      "https://hr.example.com",
		GrantType:    credential.GrantClientCredentials,
		ClientID:     "api_client",
		ClientSecret: "s3cret",
		EmployeeID:   "7",
	}
)

func bufferOf(t *testing.T, body string) *buffer.Buffer {
	buf, err := buffer.New(orangehrm.ResponseBufferSize)
	require.NoError(t, err)
	require.True(t, buf.Append([]byte(body)))
	return buf
}

func TestWorkflowRun(t *testing.T) {
	cycle := Cycle{ID: "cycle-1", Start: t0, Stop: t0.Add(3661 * time.Second)}
	authed := creds.WithAccessToken("abc123")
	ctx := context.Background()

	tests := []struct {
		name        string
		setup       func(m *MockClient)
		wantStatus  Status
		wantReason  Reason
		wantJournal int
	}{
		{
			name: "success",
			setup: func(m *MockClient) {
				m.On("FetchToken", ctx, creds).Return(authed, nil)
				m.On("Do", ctx, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, authed).
					Return(bufferOf(t, `{"success":"true"}`), nil)
			},
			wantStatus: StatusSuccess,
		},
		{
			name: "absent-success-field",
			setup: func(m *MockClient) {
				m.On("FetchToken", ctx, creds).Return(authed, nil)
				m.On("Do", ctx, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, authed).
					Return(bufferOf(t, `{"id":42}`), nil)
			},
			wantStatus: StatusSuccess,
		},
		{
			name: "token-failure",
			setup: func(m *MockClient) {
				m.On("FetchToken", ctx, creds).
					Return(creds, &orangehrm.TokenError{Kind: orangehrm.ErrMalformedResponse})
			},
			wantStatus:  StatusFailure,
			wantReason:  ReasonAuth,
			wantJournal: 1,
		},
		{
			name: "transport-failure",
			setup: func(m *MockClient) {
				m.On("FetchToken", ctx, creds).Return(authed, nil)
				m.On("Do", ctx, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, authed).
					Return(nil, &orangehrm.RequestError{Kind: orangehrm.ErrTransportFailure, Err: errors.New("timeout")})
			},
			wantStatus:  StatusFailure,
			wantReason:  ReasonNetwork,
			wantJournal: 1,
		},
		{
			name: "unparsable-response",
			setup: func(m *MockClient) {
				m.On("FetchToken", ctx, creds).Return(authed, nil)
				m.On("Do", ctx, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, authed).
					Return(bufferOf(t, `<html>502</html>`), nil)
			},
			wantStatus:  StatusFailure,
			wantReason:  ReasonBadResponse,
			wantJournal: 1,
		},
		{
			name: "rejected-string",
			setup: func(m *MockClient) {
				m.On("FetchToken", ctx, creds).Return(authed, nil)
				m.On("Do", ctx, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, authed).
					Return(bufferOf(t, `{"success":"false"}`), nil)
			},
			wantStatus:  StatusFailure,
			wantReason:  ReasonRejected,
			wantJournal: 1,
		},
		{
			name: "rejected-boolean",
			setup: func(m *MockClient) {
				m.On("FetchToken", ctx, creds).Return(authed, nil)
				m.On("Do", ctx, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, authed).
					Return(bufferOf(t, `{"success":false}`), nil)
			},
			wantStatus:  StatusFailure,
			wantReason:  ReasonRejected,
			wantJournal: 1,
		},
	}

	for _, test := range tests {
		tt := test
		t.Run(tt.name, func(t *testing.T) {
			client := &MockClient{}
			tt.setup(client)
			j := &memoryJournal{}

			got := NewWorkflow(client, j, testZone).Run(ctx, cycle, creds)

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, "cycle-1", got.CycleID)
			assert.NotEmpty(t, got.Message)
			assert.Len(t, j.Entries(), tt.wantJournal)
			if tt.wantJournal > 0 {
				assert.Contains(t, j.Entries()[0], string(got.Request))
			}
			client.AssertExpectations(t)
		})
	}
}

func TestWorkflowDoesNotTouchCallerCredentials(t *testing.T) {
	client := &MockClient{}
	ctx := context.Background()
	snapshot := creds
	client.On("FetchToken", ctx, snapshot).Return(snapshot.WithAccessToken("abc123"), nil)
	client.On("Do", ctx, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, mock.Anything).
		Return(bufferOf(t, `{}`), nil)

	got := NewWorkflow(client, nil, testZone).Run(ctx, NewCycle(t0, t0.Add(time.Hour)), snapshot)
	require.True(t, got.Succeeded())
	assert.Empty(t, snapshot.AccessToken)
}

func newOrangeHRMServer(t *testing.T, attendanceResponse string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case orangehrm.TokenPath:
			_, _ = w.Write([]byte(`{"access_token":"abc123"}`))
		case orangehrm.AttendancePath:
			require.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var record Record
			require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
			require.Equal(t, "App In", record.PunchInNote)
			_, _ = w.Write([]byte(attendanceResponse))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestWorkflowEndToEnd(t *testing.T) {
	s := newOrangeHRMServer(t, `{"success":"true"}`)
	defer s.Close()

	client := orangehrm.NewClient(customhttp.New(customhttp.WithHTTPClient(s.Client())).Build())
	c := creds
	c.BaseURL = s.URL
	cycle := NewCycle(t0, t0.Add(3661*time.Second))

	got := NewWorkflow(client, nil, testZone).Run(context.Background(), cycle, c)

	require.True(t, got.Succeeded(), got.Message)
	assert.Equal(t, "01:01:01", FormatElapsed(cycle.Elapsed()))

	var fields map[string]string
	require.NoError(t, json.Unmarshal(got.Request, &fields))
	assert.Equal(t, "App In", fields["punch_in_note"])
	assert.Equal(t, "App out", fields["punch_out_note"])
	assert.Equal(t, fields["punch_in_date"], fields["punch_out_date"])
	assert.Equal(t, "09:00", fields["punch_in_time"])
	assert.Equal(t, "10:01", fields["punch_out_time"])
	assert.Equal(t, "5.5", fields["punch_in_tz_offset"])
}

func TestWorkflowRejectedWritesOneJournalEntry(t *testing.T) {
	s := newOrangeHRMServer(t, `{"success":"false"}`)
	defer s.Close()

	path := filepath.Join(t.TempDir(), "punch.log")
	j, err := journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	client := orangehrm.NewClient(customhttp.New(customhttp.WithHTTPClient(s.Client())).Build())
	c := creds
	c.BaseURL = s.URL

	got := NewWorkflow(client, j, testZone).Run(context.Background(), NewCycle(t0, t0.Add(time.Hour)), c)
	require.Equal(t, StatusFailure, got.Status)
	require.Equal(t, ReasonRejected, got.Reason)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], string(got.Request))
	assert.Contains(t, lines[0], `response={"success":"false"}`)
}

func TestWorkflowSlotTimeoutIsJournaled(t *testing.T) {
	client := &MockClient{}
	release := make(chan struct{})
	entered := make(chan struct{})
	client.On("FetchToken", mock.Anything, creds).Return(creds.WithAccessToken("abc123"), nil)
	client.On("Do", mock.Anything, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(bufferOf(t, `{}`), nil).Once()

	j := &memoryJournal{}
	w := NewWorkflow(client, j, testZone).WithConcurrency(1)

	done := make(chan Outcome)
	go func() {
		done <- w.Run(context.Background(), Cycle{ID: "holder", Start: t0, Stop: t0.Add(time.Hour)}, creds)
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	got := w.Run(ctx, Cycle{ID: "waiter", Start: t0, Stop: t0.Add(time.Hour)}, creds)

	assert.Equal(t, StatusFailure, got.Status)
	assert.Equal(t, ReasonBusy, got.Reason)
	assert.Equal(t, "waiter", got.CycleID)
	require.Len(t, j.Entries(), 1)
	assert.Contains(t, j.Entries()[0], "(busy) cycle=waiter")
	assert.Contains(t, j.Entries()[0], "request="+string(got.Request))

	close(release)
	assert.True(t, (<-done).Succeeded())
	client.AssertExpectations(t)
}

func TestWorkflowPanicIsJournaled(t *testing.T) {
	client := &MockClient{}
	client.On("FetchToken", mock.Anything, creds).Return(creds.WithAccessToken("abc123"), nil)
	client.On("Do", mock.Anything, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("boom") })

	j := &memoryJournal{}
	w := NewWorkflow(client, j, testZone).WithConcurrency(1)
	cycle := Cycle{ID: "cycle-9", Start: t0, Stop: t0.Add(time.Hour)}

	got := w.Run(context.Background(), cycle, creds)

	assert.Equal(t, StatusFailure, got.Status)
	assert.Equal(t, ReasonPanic, got.Reason)
	assert.NotEmpty(t, got.Request)
	require.Len(t, j.Entries(), 1)
	assert.Contains(t, j.Entries()[0], "(internal error) cycle=cycle-9")
	assert.Contains(t, j.Entries()[0], "request="+string(got.Request))
	assert.Contains(t, j.Entries()[0], "boom")

	// The slot is released on panic.
	client.ExpectedCalls = nil
	client.On("FetchToken", mock.Anything, creds).Return(creds.WithAccessToken("abc123"), nil)
	client.On("Do", mock.Anything, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, mock.Anything).
		Return(bufferOf(t, `{}`), nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.True(t, w.Run(ctx, cycle, creds).Succeeded())
}

func TestWorkflowBoundsConcurrency(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	client := &MockClient{}
	client.On("FetchToken", mock.Anything, creds).Return(creds.WithAccessToken("abc123"), nil)
	client.On("Do", mock.Anything, orangehrm.MethodPost, orangehrm.AttendancePath, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			inFlight--
			mu.Unlock()
		}).
		Return(bufferOf(t, `{}`), nil)

	w := NewWorkflow(client, nil, testZone).WithConcurrency(2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, w.Run(context.Background(), NewCycle(t0, t0.Add(time.Hour)), creds).Succeeded())
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, 2)
	assert.Positive(t, peak)
}
