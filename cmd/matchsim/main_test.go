package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-markets/matchcore/internal/matching"
)

func TestRunReplaysRestCancelAndRestScript(t *testing.T) {
	script := strings.NewReader(`
# rest then cancel
NEW 0 SELL 12.3 40
CANCEL 0
NEW 1 BUY 12.3 10
`)
	var out bytes.Buffer
	engine := matching.New(matching.Config{})

	require.NoError(t, run(&out, script, engine))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "200 order accepted")
	assert.Contains(t, lines[1], "200 order accepted")
	assert.Contains(t, lines[2], "200 order accepted")
}

func TestRunPrintsDepthForRestingLevels(t *testing.T) {
	script := strings.NewReader(`
NEW 0 SELL 12.3 40
NEW 1 SELL 12.3 40
NEW 2 SELL 12.4 40
DEPTH SELL
DEPTH BUY
`)
	var out bytes.Buffer
	engine := matching.New(matching.Config{})

	require.NoError(t, run(&out, script, engine))

	output := out.String()
	assert.Contains(t, output, "DEPTH SELL:")
	assert.Contains(t, output, "12.3000 x 2")
	assert.Contains(t, output, "12.4000 x 1")
	assert.Contains(t, output, "DEPTH BUY: (empty)")
}

func TestRunDepthRejectsMalformedLine(t *testing.T) {
	script := strings.NewReader("DEPTH SIDEWAYS\n")
	var out bytes.Buffer
	engine := matching.New(matching.Config{})

	require.NoError(t, run(&out, script, engine))
	assert.Contains(t, out.String(), "ERROR")
}

func TestParseLineRejectsMalformedRequests(t *testing.T) {
	_, err := parseLine("NEW 1 SIDEWAYS 10 5")
	assert.Error(t, err)

	_, err = parseLine("CANCEL")
	assert.Error(t, err)

	_, err = parseLine("FROBNICATE 1")
	assert.Error(t, err)
}
