package main

import (
	"os"

	"github.com/schollz/progressbar/v3"

	"sortbox/internal/organizer"
)

// progressNotifier advances a spinner-style bar once per file. The file count
// is unknown until the walk snapshot is taken inside the organizer.
type progressNotifier struct {
	bar *progressbar.ProgressBar
}

func newProgressNotifier() *progressNotifier {
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Organizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &progressNotifier{bar: bar}
}

func (p *progressNotifier) FileProcessed(organizer.Placement) {
	_ = p.bar.Add(1)
}

func (p *progressNotifier) finish() {
	_ = p.bar.Finish()
}
