// Package icons maps tree entries to display glyphs.
package icons

import (
	"strings"

	"github.com/temirov/treeview/internal/types"
	"github.com/temirov/treeview/internal/utils"
)

const (
	Text     = "\U0001F4C4"
	Settings = "\u2699\uFE0F"
	Python   = "\U0001F40D"
	Data     = "\U0001F4CA"
	Script   = "\U0001F4DD"
	Image    = "\U0001F5BC\uFE0F"
	Folder   = "\U0001F4C1"
)

// byExtension is keyed by lower-case extension.
var byExtension = map[string]string{
	".txt":  Text,
	".yaml": Settings,
	".json": Settings,
	".py":   Python,
	".csv":  Data,
	".m":    Script,
	".css":  Script,
	".cpp":  Script,
	".png":  Image,
	".jpg":  Image,
	".jpeg": Image,
}

// ForFile returns the glyph for a file name, falling back to Text.
func ForFile(name string) string {
	if glyph, found := byExtension[strings.ToLower(utils.FileExtension(name))]; found {
		return glyph
	}
	return Text
}

// For returns the glyph for an entry of the given kind.
func For(kind types.NodeKind, name string) string {
	if kind == types.NodeKindDirectory {
		return Folder
	}
	return ForFile(name)
}
