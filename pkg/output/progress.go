package output

import (
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/sdejongh/codecompass/pkg/models"
)

const progressTemplate = `{{ string . "phase" }} {{ bar . "|" "█" "█" "-" "|" }} {{ percent . }} {{ counters . }} {{ etime . }}`

// Progress draws a progress bar over the classification pass.
// A disabled Progress accepts every call and draws nothing.
type Progress struct {
	out     io.Writer
	enabled bool

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewProgress creates a progress bar on out; it is only drawn when enabled
// and out is a terminal
func NewProgress(out io.Writer, enabled bool) *Progress {
	return &Progress{out: out, enabled: enabled && IsTerminal(out)}
}

// Enabled reports whether the bar is drawn
func (p *Progress) Enabled() bool {
	return p.enabled
}

// Start begins a bar over total items
func (p *Progress) Start(total int) {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bar := pb.ProgressBarTemplate(progressTemplate).New(total)
	bar.SetWriter(p.out)
	bar.SetRefreshRate(100 * time.Millisecond)
	bar.Set("phase", "Comparing")
	bar.Start()
	p.bar = bar
}

// Update moves the bar to done items; it matches tree.ProgressFunc
func (p *Progress) Update(done, total int, record models.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	p.bar.SetTotal(int64(total))
	p.bar.SetCurrent(int64(done))
}

// Finish completes and removes the bar
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	p.bar.Finish()
	p.bar = nil
}
