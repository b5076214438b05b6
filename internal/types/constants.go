package types

// Common system-wide constants
const (
	// File size limits
	DefaultMaxFileSize = 2 * 1024 * 1024 // 2MB per source file
	// Larger .py files are almost always generated (protobuf stubs, vendored bundles).

	DefaultMaxFileCount = 20000 // Maximum source units in a single run

	// Source file suffix stripped when deriving module identifiers
	PythonSourceSuffix = ".py"

	// Report defaults
	DefaultReportFile = "codebase_audit_report.md"
	DefaultGraphImage = "codebase_dependency_map.png"
	DefaultConfigFile = ".codeaudit.kdl"

	DefaultWatchDebounceMs = 300

	// Methods listed per strategy class in the report before truncating with "..."
	MaxListedMethods = 4
)
