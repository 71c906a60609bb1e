package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catkoreabeauty/shopcheck/internal/models"
)

func finishedRun(t *testing.T, errs map[string]error) *models.Run {
	t.Helper()
	run, err := models.NewRun("https://catkoreabeauty.de/")
	require.NoError(t, err)

	for _, name := range []string{"homepage_title", "shop_navigation", "search/serum"} {
		res, err := models.NewCheckResult(run.ID, name, time.Now(), errs[name])
		require.NoError(t, err)
		require.NoError(t, run.AddResult(res))
	}
	require.NoError(t, run.Complete())
	return run
}

func TestWriteReport_Text(t *testing.T) {
	tests := []struct {
		name     string
		errs     map[string]error
		contains []string
		absent   []string
	}{
		{
			name:     "all passed",
			contains: []string{"PASS  homepage_title", "PASS  search/serum", "3 passed, 0 failed"},
			absent:   []string{"FAIL"},
		},
		{
			name: "one assertion failure",
			errs: map[string]error{
				"search/serum": &models.AssertionError{Subject: "url", Expected: "serum", Actual: "https://catkoreabeauty.de/"},
			},
			contains: []string{
				"FAIL  search/serum",
				`assertion_failed: url does not contain "serum"`,
				"2 passed, 1 failed",
			},
		},
		{
			name: "missing element",
			errs: map[string]error{
				"shop_navigation": errors.Join(models.ErrElementNotFound, errors.New("#menu-item-27193 > a > span")),
			},
			contains: []string{"FAIL  shop_navigation", "element_not_found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := finishedRun(t, tt.errs)
			var buf bytes.Buffer

			require.NoError(t, WriteReport(&buf, run, false))

			out := buf.String()
			assert.Contains(t, out, "Run "+run.ID)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
			assert.NotContains(t, out, "\x1b[", "non-terminal writers get plain text")
		})
	}
}

func TestWriteReport_Aborted(t *testing.T) {
	run, err := models.NewRun("https://catkoreabeauty.de/")
	require.NoError(t, err)
	require.NoError(t, run.Abort())

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, run, false))

	assert.Contains(t, buf.String(), "0 passed, 0 failed (aborted)")
}

func TestWriteReport_JSON(t *testing.T) {
	run := finishedRun(t, map[string]error{
		"homepage_title": &models.AssertionError{Subject: "title", Expected: "Catkoreabeauty", Actual: "Shop"},
	})
	var buf bytes.Buffer

	require.NoError(t, WriteReport(&buf, run, true))

	var got runReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "completed", got.Status)
	assert.False(t, got.Passed)
	require.Len(t, got.Results, 3)
	assert.Equal(t, "homepage_title", got.Results[0].Name)
	assert.Equal(t, "assertion_failed", got.Results[0].Outcome)
	assert.Empty(t, got.Results[1].Message)
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"id\""))
}
