// Package ollama is a minimal client for a local Ollama server.
//
// Only the two endpoints this application needs are covered: a JSON-mode
// chat completion and the model listing used to verify that the configured
// model is available before any email is processed. All methods return
// explicit errors; callers decide how to degrade.
package ollama
