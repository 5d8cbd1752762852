package logging

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(FilePath(dir, time.Now()), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	for _, line := range lines {
		_, err := f.WriteString(line + "\n")
		require.NoError(t, err)
	}
}

func TestLastOperationMissingFile(t *testing.T) {
	reader := NewReader(t.TempDir())

	lines, err := reader.LastOperation()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestLastOperationPicksLatestCompleteBlock(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir,
		`{"time":"t1","level":"debug","msg":"==START MODEL SAVE=="}`,
		`{"time":"t2","level":"warning","msg":"old warning"}`,
		`{"time":"t3","level":"debug","msg":"==END MODEL SAVE=="}`,
		`{"time":"t4","level":"debug","msg":"==START MODEL SAVE=="}`,
		`{"time":"t5","level":"warning","msg":"You did not specify any consultants"}`,
		`{"time":"t6","level":"info","msg":"Inserted request"}`,
		`{"time":"t7","level":"debug","msg":"==END MODEL SAVE=="}`,
	)

	reader := NewReader(dir)
	lines, err := reader.LastOperation()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, "==START MODEL SAVE==", lines[0].Message)
	assert.Equal(t, "==END MODEL SAVE==", lines[3].Message)
	assert.Equal(t, "You did not specify any consultants", lines[1].Message)
}

func TestLastOperationIgnoresIncompleteBlock(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir,
		`{"time":"t1","level":"debug","msg":"==START MODEL SAVE=="}`,
		`{"time":"t2","level":"warning","msg":"old warning"}`,
		`{"time":"t3","level":"debug","msg":"==END MODEL SAVE=="}`,
		`{"time":"t4","level":"debug","msg":"==START MODEL SAVE=="}`,
		`{"time":"t5","level":"error","msg":"crashed mid-save"}`,
	)

	reader := NewReader(dir)
	lines, err := reader.LastOperation()
	require.NoError(t, err)
	assert.Empty(t, lines, "incomplete trailing block should yield nothing")
}

func TestWarnings(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir,
		"not json at all",
		`{"time":"t1","level":"debug","msg":"==START MODEL SAVE=="}`,
		`{"time":"t2","level":"warning","msg":"You did not specify any subawards"}`,
		`{"time":"t3","level":"error","msg":"Could not find principal investigator"}`,
		`{"time":"t4","level":"warning","msg":"Start date could not be parsed, falling back to 12/31/1969"}`,
		`{"time":"t5","level":"debug","msg":"==END MODEL SAVE=="}`,
	)

	reader := NewReader(dir)
	warnings, err := reader.Warnings()
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, "You did not specify any subawards", warnings[0].Message)
}

func TestLoggerWritesReadableLines(t *testing.T) {
	dir := t.TempDir()
	log, err := New(dir)
	require.NoError(t, err)

	log.Debug("==START MODEL SAVE==")
	log.Warning("You did not specify any consultants")
	log.Debug("==END MODEL SAVE==")

	warnings, err := NewReader(dir).Warnings()
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "You did not specify any consultants", warnings[0].Message)
}
