package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagLogDir  = "log-dir"

	// Backend flags
	FlagAPIURL  = "api-url"
	FlagTimeout = "timeout"

	// Project selection
	FlagProject = "project"

	// Graph sizing flags
	FlagNodeWidth = "node-width"
	FlagColGap    = "col-gap"
)
