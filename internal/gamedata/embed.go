// Package gamedata provides the embedded move catalogue, rosters and dialogue,
// and loaders for replacements on disk.
package gamedata

import "embed"

// dataFS embeds the default data files at build time.
//
//go:embed *.json dialogue.txt
var dataFS embed.FS
