package project

import "fmt"

// Error codes shared by every loader and surfaced by the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No project files found
	ErrCodeParseFailed = "E004" // YAML/CUE/HCL parse or decode failed
	ErrCodeNotFound    = "E005" // Path not found

	// Project content errors
	ErrCodeDupDataset  = "E010" // Dataset defined twice
	ErrCodeDupPipeline = "E011" // Pipeline defined twice
	ErrCodeInvalidKey  = "E012" // Dataset key rejected by the catalog
	ErrCodeMissingType = "E013" // Dataset without a type
)

// LoadError is a project loading failure with an error code and, when known,
// the file and line it came from.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int // 0 when unknown
	Err     error
}

func (e *LoadError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
