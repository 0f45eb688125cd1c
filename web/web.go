// Package web embeds the browser front-end served at the site root.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var files embed.FS

// Public returns the front-end bundle rooted at the public directory.
func Public() fs.FS {
	sub, err := fs.Sub(files, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
