// Package connectors provides sources of raw documents that feed the
// indexing pipeline. The filesystem connector walks and watches a notes
// directory.
package connectors
