// Package openai implements the ai interfaces against OpenAI-compatible
// APIs. It targets local services like Ollama by default, authenticating
// with a placeholder token.
package openai
