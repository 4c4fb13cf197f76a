package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Action:    ActionSimulate,
		Scenario:  "Base",
		Months:    60,
		NetWorth:  decimal.RequireFromString("123456.78"),
		Details:   "plans/base.yaml",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Base", entries[0].Scenario)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	log := New(dir)
	require.NoError(t, log.Append([]Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = ActionDelete
	e2.Months = 0
	e2.NetWorth = decimal.Zero
	require.NoError(t, log.Append([]Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionSimulate, entries[0].Action)
	assert.Equal(t, ActionDelete, entries[1].Action)

	data, err := os.ReadFile(filepath.Join(dir, logFile))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")
}

func TestLogAppend_Concurrent(t *testing.T) {
	dir := t.TempDir()
	log := New(dir)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, log.Append([]Entry{testEntry()}))
		}()
	}
	wg.Wait()

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 16)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Months, got.Months)
	assert.True(t, original.NetWorth.Equal(got.NetWorth))
	assert.Equal(t, original.Details, got.Details)
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a"})
	assert.Error(t, err)

	row := MarshalEntry(testEntry())
	row[colMonths] = "many"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)

	row = MarshalEntry(testEntry())
	row[colTime] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)
}
