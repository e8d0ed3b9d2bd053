package types

// WSCommandResult is the standard response for command execution.
type WSCommandResult struct {
	Type    string         `json:"type"`            // "<command>_result"
	Success bool           `json:"success"`         // true if command succeeded
	Error   *ResolvedError `json:"error,omitempty"` // Resolved validation error if failed
	Data    any            `json:"data,omitempty"`  // Optional response data
}

// ValidateResponse is returned by POST /api/validate.
type ValidateResponse struct {
	Valid  bool           `json:"valid"`
	Schema string         `json:"schema"`
	Map    string         `json:"map"`
	Error  *ResolvedError `json:"error,omitempty"`
}

// SchemaInfo describes a registered request schema.
type SchemaInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// KindInfo describes one recognized failure kind.
type KindInfo struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
}

// VersionInfo contains version comparison data.
type VersionInfo struct {
	Current     string `json:"current"`
	Latest      string `json:"latest,omitempty"`
	UpdateAvail bool   `json:"update_available"`
	Commit      string `json:"commit,omitempty"`
	BuildTime   string `json:"build_time,omitempty"`
}
