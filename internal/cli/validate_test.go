package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/compiler"
)

func TestValidateValidCertificates(t *testing.T) {
	out, _, err := executeRoot(t, "validate", validCerts)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All 3 step(s) valid")
}

func TestValidateValidCertificatesJSON(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "validate", validCerts)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Steps)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	out, _, err := executeRoot(t, "validate", invalidCert)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ Validation failed")
	for _, code := range []string{
		compiler.ErrInvalidRule,
		compiler.ErrNonRationalParam,
		compiler.ErrInvalidSort,
		compiler.ErrInvalidFormula,
	} {
		assert.Contains(t, out, code)
	}
	assert.Contains(t, out, "step.odd.rule")
	assert.Contains(t, out, "step.unparsable.declare.x")
	assert.NotContains(t, out, "step.fine")
}

func TestValidateJSONErrors(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "validate", invalidCert)
	require.Error(t, err)

	var resp struct {
		CLIResponse
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Steps)
	assert.GreaterOrEqual(t, len(resp.Data.Errors), 4)
	assert.Equal(t, resp.Data.Errors[0].Code, resp.Error.Code)
}

func TestValidateNonExistentPath(t *testing.T) {
	out, _, err := executeRoot(t, "validate", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, _, err := executeRoot(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestValidateNoSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cue")
	require.NoError(t, os.WriteFile(path, []byte("other: 1\n"), 0644))

	_, _, err := executeRoot(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoSteps)
}

func TestValidateSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte("step: s: {\n\tthis is not valid CUE\n}\n"), 0644))

	out, _, err := executeRoot(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeBuildFailed)
	assert.Contains(t, out, "Error ["+ErrCodeBuildFailed+"]")
}
