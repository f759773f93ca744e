// Package normalisers turns files into documents. Each subpackage handles
// specific MIME types; the Registry dispatches between them and falls back
// to plain text.
package normalisers
