package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// Configuration file locations.
const (
	// ConfigFileName is the file name of both local and global configuration files.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".scantree"
)

// Messages used by the entry point.
const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "scantree failed"
)
