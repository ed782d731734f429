package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"cinefile/internal/importer"
)

const progressScale = 1000

// progressView renders import progress as a bar on terminals and as one line
// per status change elsewhere.
type progressView struct {
	out        io.Writer
	bar        *progressbar.ProgressBar
	lastStatus string
}

func newProgressView(out io.Writer) *progressView {
	v := &progressView{out: out}
	if isTerminal(out) {
		v.bar = progressbar.NewOptions(progressScale,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	return v
}

func (v *progressView) update(status string, fraction float64) {
	if v.bar != nil {
		if status != v.lastStatus {
			v.bar.Describe(status)
		}
		_ = v.bar.Set(int(fraction * progressScale))
	} else if status != v.lastStatus {
		fmt.Fprintln(v.out, status)
	}
	v.lastStatus = status
}

func (v *progressView) preload(p importer.PreloadProgress) {
	v.update(p.Status, p.Fraction)
}

func (v *progressView) list(name string) importer.ProgressFunc {
	return func(p importer.Progress) {
		v.update(fmt.Sprintf("Importing %s", name), p.Fraction)
	}
}

func (v *progressView) finish() {
	if v.bar != nil {
		_ = v.bar.Finish()
	}
}
