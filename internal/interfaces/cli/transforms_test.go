package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTransforms(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"transforms"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTransformsCommand_StepCurve(t *testing.T) {
	out, err := runTransforms(t,
		"--kind", "step", "--low", "0", "--high", "1",
		"--from=-1", "--to=2", "--steps", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "raw")

	scores := make([]string, 0, 4)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		require.Len(t, fields, 2)
		scores = append(scores, fields[1])
	}
	assert.Equal(t, []string{"0.0000", "1.0000", "1.0000", "0.0000"}, scores)
}

func TestTransformsCommand_UnknownKind(t *testing.T) {
	_, err := runTransforms(t, "--kind", "spline")
	assert.Error(t, err)
}

func TestTransformsCommand_BadRange(t *testing.T) {
	_, err := runTransforms(t, "--kind", "step", "--from", "5", "--to", "1")
	assert.Error(t, err)
}
