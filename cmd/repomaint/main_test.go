package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/repomaint/internal/scoring"
)

func TestCheckFailUnder(t *testing.T) {
	tests := []struct {
		score, threshold float64
		fails            bool
	}{
		{84.5, 0, false},
		{84.5, 84.5, false},
		{84.5, 90, true},
		{0, 1, true},
	}
	for _, tt := range tests {
		err := checkFailUnder(tt.score, tt.threshold)
		if !tt.fails {
			assert.NoError(t, err)
			continue
		}
		var ee *exitError
		require.True(t, errors.As(err, &ee), "score %.2f threshold %.2f", tt.score, tt.threshold)
		assert.Equal(t, 2, ee.code)
	}
}

func TestMetricsCommandListsEveryMetric(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"metrics"})
	require.NoError(t, root.Execute())

	for _, name := range scoring.Order {
		assert.Contains(t, out.String(), string(name))
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "repomaint "))
}

func TestAnalyzeRejectsBadReference(t *testing.T) {
	t.Chdir(t.TempDir())
	root := newRootCmd()
	root.SetArgs([]string{"analyze", "not a repository"})
	assert.Error(t, root.Execute())
}

func TestWarningsFlush(t *testing.T) {
	w := &warnings{}
	w.add("first")
	w.add("second")
	var out bytes.Buffer
	w.flush(&out)
	assert.Contains(t, out.String(), "warning: first")
	assert.Contains(t, out.String(), "warning: second")

	out.Reset()
	w.flush(&out)
	assert.Empty(t, out.String())
}
