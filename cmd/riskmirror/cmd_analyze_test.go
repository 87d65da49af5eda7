package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/brunobiangulo/riskmirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetFlags(t *testing.T) {
	got, err := parseSetFlags([]string{"name=Alice", " income = 5000 ", "goals=save=more", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"name":   "Alice",
		"income": "5000",
		"goals":  "save=more",
		"empty":  "",
	}, got)

	for _, bad := range []string{"noequals", "=value"} {
		_, err := parseSetFlags([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestBuildRequest(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "p.yaml")
	require.NoError(t, os.WriteFile(file, []byte("domain: finance\ndata:\n  name: Alice\n  income: 4000\n"), 0644))

	t.Run("file with overrides", func(t *testing.T) {
		req, err := buildRequest(t.Context(), file, &analyzeOptions{set: []string{"income=4500", "debt=100"}}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "finance", req.Domain)
		assert.Equal(t, map[string]string{"name": "Alice", "income": "4500", "debt": "100"}, req.Data)
	})

	t.Run("domain flag wins", func(t *testing.T) {
		req, err := buildRequest(t.Context(), file, &analyzeOptions{domain: "health"}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "health", req.Domain)
	})

	t.Run("flags only", func(t *testing.T) {
		req, err := buildRequest(t.Context(), "", &analyzeOptions{domain: "health", set: []string{"age=40"}}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, riskmirror.AnalysisRequest{Domain: "health", Data: map[string]string{"age": "40"}}, req)
	})

	t.Run("no domain", func(t *testing.T) {
		_, err := buildRequest(t.Context(), "", &analyzeOptions{set: []string{"age=40"}}, nil, nil)
		assert.ErrorContains(t, err, "no domain")
	})

	t.Run("unknown extension", func(t *testing.T) {
		other := filepath.Join(dir, "p.toml")
		require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
		_, err := buildRequest(t.Context(), other, &analyzeOptions{}, nil, nil)
		assert.Error(t, err)
	})
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "reports", "alice.pdf")
	eng := newFakeEngine()

	a := newApp()
	a.configFile = writeConfig(t, "chat:\n  provider: openai\n")
	a.newEngine = func(riskmirror.Config, ...riskmirror.Option) (riskmirror.Engine, error) { return eng, nil }

	var stdout bytes.Buffer
	cmd := newRootCommand(a)
	cmd.SetArgs([]string{"--config", a.configFile, "analyze", "--domain", "finance", "--set", "name=Alice", "--out", out})
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "Analysis: 1 (finance, Alice)")
	assert.Contains(t, stdout.String(), "Score:    6.5/10 - Moderate Risk")
	assert.Contains(t, stdout.String(), "Report:   "+out)
	assert.True(t, eng.closed)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "%PDF")
}

func TestDeleteAndExportCommands(t *testing.T) {
	eng := newFakeEngine()
	eng.add(riskmirror.Analysis{Name: "Alice"})
	eng.add(riskmirror.Analysis{Name: "Bob"})

	a := newApp()
	cfg := writeConfig(t, "chat:\n  provider: openai\n")
	a.newEngine = func(riskmirror.Config, ...riskmirror.Option) (riskmirror.Engine, error) { return eng, nil }

	run := func(args ...string) (string, error) {
		var stdout bytes.Buffer
		cmd := newRootCommand(a)
		cmd.SetArgs(append([]string{"--config", cfg}, args...))
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})
		err := cmd.Execute()
		return stdout.String(), err
	}

	xlsx := filepath.Join(t.TempDir(), "h.xlsx")
	out, err := run("export", "--out", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to "+xlsx)
	data, err := os.ReadFile(xlsx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2 rows")

	out, err = run("delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1\n", out)
	assert.Equal(t, 1, eng.count())

	_, err = run("delete", "1")
	assert.ErrorIs(t, err, riskmirror.ErrAnalysisNotFound)

	_, err = run("delete", "x")
	assert.ErrorContains(t, err, "invalid analysis id")
}
