package progress

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator shows a spinner while a history query runs. It does nothing
// when the output is not a terminal.
type Indicator struct {
	s *spinner.Spinner
}

// NewIndicator returns an indicator writing to f. A disabled indicator is
// returned when caps reports no terminal.
func NewIndicator(f *os.File, caps TerminalCapabilities) *Indicator {
	if !caps.IsTTY {
		return &Indicator{}
	}
	s := spinner.New(spinner.CharSets[SpinnerSet(caps)], 100*time.Millisecond, spinner.WithWriterFile(f))
	return &Indicator{s: s}
}

// Start shows message next to the spinner.
func (i *Indicator) Start(message string) {
	if i.s == nil {
		return
	}
	i.s.Suffix = " " + message
	i.s.Start()
}

// Stop removes the spinner line.
func (i *Indicator) Stop() {
	if i.s == nil {
		return
	}
	i.s.Stop()
}

// Track runs fn while the spinner shows message.
func (i *Indicator) Track(message string, fn func() error) error {
	i.Start(message)
	defer i.Stop()
	return fn()
}
