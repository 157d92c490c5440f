// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The evaluation loop is strictly sequential: books are processed one at a
// time and questions within a book one at a time. Staging areas and
// retrievers are per-book resources; the reader is shared for the process.
package services
