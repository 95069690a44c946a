package cli

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// barProgress adapts progressbar/v3 to indexer.ProgressReporter, writing to
// stderr so it never interleaves with the `index` command's JSON stdout
// output.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func newBarProgress() *barProgress { return &barProgress{} }

func (p *barProgress) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *barProgress) Step() {
	if p.bar != nil {
		p.bar.Add(1)
	}
}
