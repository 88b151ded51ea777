package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"btree/btree"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string) string {
	color.NoColor = true
	tree, err := btree.New[string](2)
	require.NoError(t, err)
	var out bytes.Buffer
	NewCli(bufio.NewScanner(strings.NewReader(input)), &out, tree).Start()
	return out.String()
}

func TestInsertGetDelete(t *testing.T) {
	out := run(t, "INS b\nins a\nINS c\nINS d\nGET c\nDEL a\nGET a\nDEL a\nCHECK\n")
	require.Contains(t, out, "[a b c]\nL0: [a b c]\n")
	require.Contains(t, out, "[[a] b [c d]]\nL0: [b]\nL1: [a] [c d]\n")
	require.Contains(t, out, "Found at index 0 of node [c d] (leaf: true)\n")
	require.Contains(t, out, "[[b] c [d]]\nL0: [c]\nL1: [b] [d]\n")
	require.Equal(t, 2, strings.Count(out, "Key not found."))
	require.Contains(t, out, "OK: 3 keys, height 1\n")
}

func TestUsageAndUnknownCommands(t *testing.T) {
	out := run(t, "INS\nDEL a b\nGET\nFOO 1\n\n")
	require.Contains(t, out, "Usage: INS <key>")
	require.Contains(t, out, "Usage: DEL <key>")
	require.Contains(t, out, "Usage: GET <key>")
	require.Contains(t, out, "Unknown command \"foo\"")
}

func TestExitStopsReading(t *testing.T) {
	out := run(t, "INS a\nEXIT\nINS b\n")
	require.NotContains(t, out, "[a b]")
	require.True(t, strings.HasPrefix(out, "\nB-Tree CLI (minimum degree 2)"))
}
