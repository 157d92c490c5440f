// Package catalog contains adapters that load benchmark catalogs.
package catalog
