package appfs

import "embed"

// FS carries the static assets shipped with the binary.
//go:embed migrations
var FS embed.FS
