package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/farkas/internal/compiler"
)

// LoadResult contains the certificate steps loaded from a file or directory.
type LoadResult struct {
	Steps     []compiler.Step
	Value     cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred while loading certificates.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
// Certificate rejections use the farkas codes (MALFORMED_CERTIFICATE,
// NOT_AN_INEQUALITY) instead.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeDatabase    = "E007" // Certificate log error
	ErrCodeParse       = "E008" // Term does not parse
	ErrCodeNoSteps     = "E009" // No certificate steps found
	ErrCodeCompile     = "E010" // Certificate step does not compile
	ErrCodeArgument    = "E011" // Invalid command argument
)

// LoadValue reads a single .cue file, or the CUE package in a directory.
func LoadValue(path string) (cue.Value, int, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("certificate path not found: %s", path)}
	}
	if err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
	}

	ctx := cuecontext.New()

	if !info.IsDir() {
		if filepath.Ext(path) != ".cue" {
			return cue.Value{}, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("not a CUE file: %s", path)}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
		}
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return cue.Value{}, 0, cueLoadError(ErrCodeBuildFailed, err)
		}
		return v, 1, nil
	}

	cueFiles, err := FindCUEFiles(path)
	if err != nil {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return cue.Value{}, 0, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, 0, cueLoadError(ErrCodeLoadFailed, inst.Err)
	}

	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return cue.Value{}, 0, cueLoadError(ErrCodeBuildFailed, err)
	}
	return v, len(cueFiles), nil
}

// LoadCertificates loads and compiles every step under path. Compilation
// stops at the first bad step; use the validate command to see them all.
func LoadCertificates(path string) (*LoadResult, error) {
	v, n, err := LoadValue(path)
	if err != nil {
		return nil, err
	}

	steps, err := compiler.CompileValue(v)
	if err != nil {
		return nil, convertCompileError(err)
	}
	if len(steps) == 0 {
		return nil, &LoadError{Code: ErrCodeNoSteps, Message: fmt.Sprintf("no certificate steps found in %s", path)}
	}

	return &LoadResult{Steps: steps, Value: v, FileCount: n}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompile,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// cueLoadError keeps the position of the first CUE error.
func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Message = errs[0].Error()
		if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
			le.Pos = positions[0]
		}
	}
	return le
}

// failLoad writes a load error through the formatter and returns the
// command-error exit.
func failLoad(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		msg := loadErr.Message
		if loadErr.Pos.IsValid() {
			msg = fmt.Sprintf("%s:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), msg)
		}
		return f.Fail(ExitCommandError, loadErr.Code, msg)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
}
