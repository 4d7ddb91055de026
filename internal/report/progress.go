package report

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Progress returns a callback for ranker.Ranker.OnProgress that draws a bar
// on w. The bar is sized on the first call.
func Progress(w io.Writer, description string) func(done, total int) {
	var (
		once sync.Once
		bar  *progressbar.ProgressBar
	)
	return func(_, total int) {
		once.Do(func() {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription(description),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		})
		_ = bar.Add(1)
	}
}
