package constants

// RunStatus is the canonical status for archived audit runs.
type RunStatus string

// Stable values (store these exact strings in the archive).
const (
	RunStatusRunning RunStatus = "RUNNING" // in progress
	RunStatusMatched RunStatus = "MATCHED" // deterministic reconciliation completed
	RunStatusLLMOK   RunStatus = "LLM_OK"  // LLM cross-check completed
	RunStatusFailed  RunStatus = "FAILED"  // terminal failure
)
