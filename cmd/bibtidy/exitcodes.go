package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (unreadable input, write failure)
	ExitConfigError = 2 // Configuration error (missing file, invalid option, bad pattern or template)
	ExitDataError   = 3 // Data error (blocks of the input that failed to parse)
)
