// Package appfs embeds the migrations, assets and email templates shipped with the binaries.
package appfs

import "embed"

//go:embed migrations assets templates
var FS embed.FS
