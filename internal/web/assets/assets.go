// Package assets embeds the static files served under /static.
package assets

import "embed"

//go:embed files
var FS embed.FS
