package ir

// Version constants for the snapshot schema and tool.
const (
	// SnapshotVersion is the catalog/registry snapshot schema version.
	SnapshotVersion = "1"

	// ToolVersion is the catbind version.
	ToolVersion = "0.1.0"
)
