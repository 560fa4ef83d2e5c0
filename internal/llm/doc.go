// Package llm provides a language-model backend for transcript classification
// and narrative summaries. Requests go through an OpenAI-compatible chat API
// with retry logic, rate limiting and response caching.
package llm
