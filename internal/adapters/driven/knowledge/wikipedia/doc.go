// Package wikipedia implements the knowledge source port against the
// MediaWiki action API.
//
// Search maps to list=search and Page to prop=extracts with plain-text
// output. Requests are throttled by a token bucket and retried on 429 and
// 5xx responses.
package wikipedia
