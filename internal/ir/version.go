package ir

// Version constants for snapshot and history formats.
const (
	// SnapshotVersion is bumped when the golden snapshot layout changes.
	SnapshotVersion = "1"

	// HarnessVersion is the quirks harness version.
	HarnessVersion = "0.1.0"
)
