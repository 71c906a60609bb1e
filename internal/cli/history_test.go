package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catkoreabeauty/shopcheck/internal/models"
)

// MockRunHistory is a mock implementation of RunHistory for testing
type MockRunHistory struct {
	ListRunsFunc func(limit int) ([]*models.Run, error)
	GetRunFunc   func(id string) (*models.Run, error)
}

func (m *MockRunHistory) ListRuns(limit int) ([]*models.Run, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(limit)
	}
	return nil, nil
}

func (m *MockRunHistory) GetRun(id string) (*models.Run, error) {
	if m.GetRunFunc != nil {
		return m.GetRunFunc(id)
	}
	return nil, errors.New("not found")
}

func TestWriteHistory_Table(t *testing.T) {
	// GIVEN
	done, err := models.NewRun("https://catkoreabeauty.de/")
	require.NoError(t, err)
	done.StartedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, done.Complete())

	running, err := models.NewRun("http://localhost:8080/")
	require.NoError(t, err)

	var gotLimit int
	history := &MockRunHistory{
		ListRunsFunc: func(limit int) ([]*models.Run, error) {
			gotLimit = limit
			return []*models.Run{running, done}, nil
		},
	}
	var buf bytes.Buffer

	// WHEN
	err = WriteHistory(&buf, history, "", 0, false)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit, "non-positive limit falls back to the default")
	out := buf.String()
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, done.ID)
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "2026-03-01T09:00:00Z")
	assert.Contains(t, out, running.ID)
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "http://localhost:8080/")
}

func TestWriteHistory_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteHistory(&buf, &MockRunHistory{}, "", 5, false))

	assert.Equal(t, "No runs recorded.\n", buf.String())
}

func TestWriteHistory_JSON(t *testing.T) {
	run, err := models.NewRun("https://catkoreabeauty.de/")
	require.NoError(t, err)
	history := &MockRunHistory{
		ListRunsFunc: func(limit int) ([]*models.Run, error) {
			return []*models.Run{run}, nil
		},
	}
	var buf bytes.Buffer

	require.NoError(t, WriteHistory(&buf, history, "", 5, true))

	var got []runReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, run.ID, got[0].ID)
	assert.Equal(t, "running", got[0].Status)
}

func TestWriteHistory_SingleRun(t *testing.T) {
	run := finishedRun(t, nil)
	history := &MockRunHistory{
		GetRunFunc: func(id string) (*models.Run, error) {
			if id != run.ID {
				return nil, errors.New("not found")
			}
			return run, nil
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, history, run.ID, 0, false))
	assert.Contains(t, buf.String(), "3 passed, 0 failed")

	buf.Reset()
	assert.Error(t, WriteHistory(&buf, history, "missing", 0, false))
}

func TestWriteHistory_ListError(t *testing.T) {
	history := &MockRunHistory{
		ListRunsFunc: func(limit int) ([]*models.Run, error) {
			return nil, errors.New("connection refused")
		},
	}

	err := WriteHistory(&bytes.Buffer{}, history, "", 10, false)

	assert.EqualError(t, err, "connection refused")
}

func TestNewLogger(t *testing.T) {
	for _, tt := range []struct{ json, verbose bool }{{false, false}, {true, false}, {false, true}} {
		logger, err := NewLogger(tt.json, tt.verbose)
		require.NoError(t, err)
		assert.Equal(t, tt.verbose, logger.Core().Enabled(-1), "debug enabled only when verbose")
		_ = logger.Sync()
	}
}
