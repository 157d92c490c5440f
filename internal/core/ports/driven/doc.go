// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - KnowledgeSource: Title search and exact page fetch (Wikipedia)
//   - StagingProvider / StagingArea: Per-book holder of fetched text units
//   - Normaliser: Cleans encyclopedic markup from staged text
//   - PostProcessor / PostProcessorPipeline: Splits cleaned text into passages
//   - RetrieverFactory / Retriever: Per-book lexical passage index
//   - Reader: Answer-extraction model, created once per process
//   - ResultWriter: Persists run metrics
//   - CatalogSource: Loads books and questions
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - LLMService: Language model backing the generative readers.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, normaliser or post-processor package
package driven
