// Package llm holds the chat model adapters used by the generative reader.
package llm
