package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/food-ledger/internal/config"
)

func newTestApp(t *testing.T) (*cliApp, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.EnvLedgerPath, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvPort, "")

	app, err := newApp("", filepath.Join(t.TempDir(), "food_log.csv"))
	require.NoError(t, err)

	var out bytes.Buffer
	app.out = &out
	app.now = func() time.Time { return time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC) }
	return app, &out
}

func TestRunLogAndTotals(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.run("log", []string{"-name", "Rice, white, cooked", "-calories", "130", "-protein", "2.7", "-carbs", "28", "-fat", "0.3"}))
	require.NoError(t, app.run("log", []string{"-name", "Yesterday", "-calories", "100", "-date", "2026-02-10"}))
	assert.Contains(t, out.String(), "Logged Rice, white, cooked")

	out.Reset()
	require.NoError(t, app.run("totals", nil))
	assert.Contains(t, out.String(), "2026-02-11: 1 entr(ies)")
	assert.Contains(t, out.String(), "Total: 130 kcal, protein 2.7g, carbs 28g, fat 0.3g")

	out.Reset()
	require.NoError(t, app.run("list", []string{"-all"}))
	assert.Contains(t, out.String(), "Food log (all days)")
	assert.Contains(t, out.String(), "Yesterday")
	assert.Contains(t, out.String(), "Total: 230 kcal")
}

func TestRunLogValidation(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Error(t, app.run("log", []string{"-calories", "10"}))
	assert.Error(t, app.run("log", []string{"-name", "x", "-fat", "-1"}))
	assert.Error(t, app.run("log", []string{"-name", "x", "-date", "11/02/2026"}))

	records, err := app.store.Load("")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunInit(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.run("init", nil))
	assert.Contains(t, out.String(), "Ledger ready: "+app.store.Path())
}

func TestRunUnknownCommand(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Error(t, app.run("delete", nil))
}
