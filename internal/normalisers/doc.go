// Package normalisers holds the Normaliser implementations that clean staged
// text units before they are split into passages.
package normalisers
