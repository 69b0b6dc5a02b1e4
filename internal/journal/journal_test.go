package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] `)

func TestRecordFormat(t *testing.T) {
	var out bytes.Buffer
	j := New(&out)

	j.Record("Attendance submission failed")
	j.Record("request={\"a\":1} response={\n\"success\":\"false\"\n}")

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Regexp(t, linePattern, line)
	}
	assert.True(t, strings.HasSuffix(lines[0], "] Attendance submission failed"))
	assert.Contains(t, lines[1], `request={"a":1} response={ "success":"false" }`)
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punch.log")

	first, err := Open(path)
	require.NoError(t, err)
	first.Record("one")
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	second.Record("two")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " one"))
	assert.True(t, strings.HasSuffix(lines[1], " two"))
}

func TestOpenFailure(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "punch.log"))
	require.ErrorContains(t, err, "open journal")
}

func TestNilJournal(t *testing.T) {
	var j *Journal
	j.Record("ignored")
	require.NoError(t, j.Close())
}
