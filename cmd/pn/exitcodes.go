package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no repository, invalid config, bad API key)
	ExitDataError   = 3 // Data error (malformed CSV or snapshot)
	ExitAPIError    = 4 // API error (rate limit, network, bad response)
	ExitNotFound    = 5 // Paper not found upstream or locally
)
