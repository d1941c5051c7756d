// Package content holds the articles compiled into the binary.
package content

import "embed"

// FS contains the bundled content directories.
//
//go:embed articles future-insights
var FS embed.FS

// Dirs lists the bundled directories in resolution order.
var Dirs = []string{"articles", "future-insights"}
