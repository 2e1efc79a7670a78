package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNow(t *testing.T) {
	got, err := parseNow("2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), got)

	got, err = parseNow("2026-10-14T09:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 14, 4, 0, 0, 0, time.UTC), got.UTC())

	_, err = parseNow("yesterday")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, dashboardLine{Pair: "blinkit:acme", Error: "timeout"}))
	assert.JSONEq(t, `{"pair":"blinkit:acme","error":"timeout"}`, buf.String())
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, cmd := range newApp().Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"risk", "insights", "facilities", "dashboard"}, names)
}
