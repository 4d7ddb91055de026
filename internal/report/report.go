// Package report prints rankings for the command line tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"image-ranker/internal/model"
)

type Format int

const (
	// Names prints one file name per match.
	Names Format = iota
	// Scores prints "name (0.87)" per match.
	Scores
	// JSON prints the whole ranking as indented JSON.
	JSON
)

func Write(w io.Writer, rk model.Ranking, f Format) error {
	if f == JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rk)
	}

	if len(rk.Matches) == 0 {
		_, err := fmt.Fprintf(w, "No images in %s are comparable to %s.\n", rk.Folder, rk.Reference)
		return err
	}

	if _, err := fmt.Fprintf(w, "The %d most similar images to %s are:\n", len(rk.Matches), rk.Reference); err != nil {
		return err
	}
	for _, m := range rk.Matches {
		var err error
		switch f {
		case Scores:
			_, err = fmt.Fprintf(w, "%s (%.2f)%s\n", m.Name, m.Score, dupSuffix(m))
		default:
			_, err = fmt.Fprintf(w, "%s%s\n", m.Name, dupSuffix(m))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func dupSuffix(m model.Match) string {
	if m.NearDuplicate {
		return " [near duplicate]"
	}
	return ""
}
