// Package file provides the TOML-backed configuration store.
// Settings live in ~/.qabench/config.toml unless another directory is given.
package file
