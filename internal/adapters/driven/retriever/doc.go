// Package retriever groups the passage index backends. Each backend builds a
// fresh per-book index and is selected by the store.kind setting:
//
//   - tfidf: in-process TF-IDF cosine ranking ("memory")
//   - sqlite: in-memory SQLite FTS5 table ranked by bm25 ("sqlite")
package retriever
