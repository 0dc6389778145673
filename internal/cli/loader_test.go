package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadErrorCode(t *testing.T, err error) string {
	t.Helper()
	var le *LoadError
	require.True(t, errors.As(err, &le), "want *LoadError, got %T: %v", err, err)
	return le.Code
}

func TestLoadValueFileAndDirectory(t *testing.T) {
	_, n, err := LoadValue(mixedCert)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	v, n, err := LoadValue(validCerts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, v.LookupPath(cue.ParsePath("step.bound")).Exists())
	assert.True(t, v.LookupPath(cue.ParsePath("step.chain")).Exists())
}

func TestLoadValueErrors(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0644))

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing", filepath.Join(dir, "absent"), ErrCodeNotFound},
		{"not cue", notes, ErrCodeNoFiles},
		{"no cue files", dir, ErrCodeNoFiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadValue(tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.code, loadErrorCode(t, err))
		})
	}
}

func TestLoadCertificates(t *testing.T) {
	result, err := LoadCertificates(validCerts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FileCount)
	require.Len(t, result.Steps, 3)

	names := make([]string, len(result.Steps))
	for i, st := range result.Steps {
		names[i] = st.Name
	}
	assert.ElementsMatch(t, []string{"bound", "fractional", "chain"}, names)
}

func TestLoadCertificatesErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.cue")
	require.NoError(t, os.WriteFile(empty, []byte("other: 1\n"), 0644))

	_, err := LoadCertificates(empty)
	require.Error(t, err)
	assert.Equal(t, ErrCodeNoSteps, loadErrorCode(t, err))

	_, err = LoadCertificates(invalidCert)
	require.Error(t, err)
	assert.Equal(t, ErrCodeCompile, loadErrorCode(t, err))
	assert.Contains(t, err.Error(), "rule")
}

func TestFindCUEFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"a.cue", "b.txt", filepath.Join("nested", "c.cue")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(""), 0644))
	}

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = FindCUEFiles(filepath.Join(dir, "absent"))
	assert.Error(t, err)
}

func TestLoadErrorString(t *testing.T) {
	err := &LoadError{Code: ErrCodeNotFound, Message: "gone"}
	assert.Equal(t, "E005: gone", err.Error())
}
