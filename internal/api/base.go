package api

// DefaultBaseURL is the tag service address used when config does not set one.
const DefaultBaseURL = "http://localhost:8000"
