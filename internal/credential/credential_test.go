package credential

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testCreds = Credentials{
	BaseURL:      "https://hr.example.com",
	GrantType:    GrantPassword,
	ClientID:     "api_client",
	ClientSecret: "s3cret",
	Username:     "admin",
	Password:     "pw",
	EmployeeID:   "7",
}

func TestSnapshotIsIndependent(t *testing.T) {
	store := NewStore(testCreds)

	snap := store.Snapshot()
	snap.AccessToken = "mutated"
	snap.BaseURL = "https://other.example.com"

	got := store.Snapshot()
	assert.Empty(t, got.AccessToken)
	assert.Equal(t, "https://hr.example.com", got.BaseURL)

	store.SetAccessToken("abc123")
	assert.Equal(t, "mutated", snap.AccessToken)
	assert.Equal(t, "abc123", store.Snapshot().AccessToken)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore(testCreds)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.SetAccessToken("token")
		}()
		go func() {
			defer wg.Done()
			snap := store.Snapshot()
			snap.AccessToken = "local"
		}()
	}
	wg.Wait()

	assert.Equal(t, "token", store.Snapshot().AccessToken)
}

func TestRelease(t *testing.T) {
	c := testCreds.WithAccessToken("abc123")
	assert.True(t, c.Authenticated())

	c.Release()
	assert.Equal(t, Credentials{}, c)

	store := NewStore(testCreds)
	store.Release()
	assert.Equal(t, Credentials{}, store.Snapshot())
}

func TestStringRedactsSecrets(t *testing.T) {
	s := testCreds.WithAccessToken("abc123").String()
	assert.NotContains(t, s, "s3cret")
	assert.NotContains(t, s, "abc123")
	assert.NotContains(t, s, "pw ")
	assert.Contains(t, s, "token=true")
}

func TestGrantTypeKnown(t *testing.T) {
	assert.True(t, GrantClientCredentials.Known())
	assert.True(t, GrantPassword.Known())
	assert.False(t, GrantType("implicit").Known())
}
