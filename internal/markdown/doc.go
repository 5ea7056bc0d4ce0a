// Package markdown implements the document workflows: strict single-pass
// parsing of specification documents into the typed model, canonical
// serialization back to markdown, goldmark-backed HTML conversion, and
// filesystem discovery.
package markdown
