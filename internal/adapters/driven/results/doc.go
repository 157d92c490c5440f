// Package results contains writers that persist benchmark metric records.
//
// Each writer materialises the books dataset and the questions dataset under
// a directory partitioned by run configuration. Multi fans out to several
// writers.
package results
