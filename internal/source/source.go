// Package source enumerates and opens the images of a folder, either a
// local directory or an S3 prefix.
//
// Entry names are bare file names. Anything containing a slash is treated as
// a full path (or object key) outside the folder listing.
package source

import (
	"context"
	"io"
)

type Source interface {
	// Folder describes the location for reports.
	Folder() string
	// List returns the entry names of the folder in a stable order.
	List(ctx context.Context) ([]string, error)
	// Open returns the content of an entry name or of a full path.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Locate maps a reference to the entry name it has in this folder.
	// When the reference lives elsewhere it is returned unchanged with
	// inFolder false.
	Locate(ref string) (name string, inFolder bool)
}

func isBare(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] == '/' || name[i] == '\\' {
			return false
		}
	}
	return name != "" && name != "." && name != ".."
}
