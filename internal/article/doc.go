// Package article defines the normalized content document and the rules that
// shape raw front matter and Markdown bodies into it.
//
// Documents are read-only projections: they are built fresh for each query by
// Normalizer.Parse and never written back.
package article
