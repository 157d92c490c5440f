// Package reader groups the answer-extraction backends:
//
//   - lexical: offline span extraction by weighted term overlap
//   - extractive: remote extractive QA model (Hugging Face inference style)
//   - generative: chat model prompted to answer from the passages
package reader
