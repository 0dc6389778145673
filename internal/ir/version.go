package ir

// Version constants for the term encoding and the checker.
const (
	// IRVersion is the canonical term encoding version.
	IRVersion = "1"

	// EngineVersion is the certificate checker version.
	EngineVersion = "0.1.0"
)
