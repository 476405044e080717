package config

// Default paths and endpoints
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./qreader.db"

	// DefaultUndergroundBaseURL is the default underground provider endpoint
	DefaultUndergroundBaseURL = "https://toc.qidianunderground.org"

	// DefaultWebNovelBaseURL is the default web-novel provider endpoint
	DefaultWebNovelBaseURL = "https://www.webnovel.com"
)
