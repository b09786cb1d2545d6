package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// activityTick is the redraw interval of an activity line.
const activityTick = 100 * time.Millisecond

var activityFrames = []string{"◐", "◓", "◑", "◒"}

// activity is an animated status line shown while a slow step runs, such as
// drawing a large scene. The line carries the elapsed time and is cleared when
// the activity stops. Cancelling ctx stops the animation but not the step.
type activity struct {
	w     io.Writer
	label string
	start time.Time
	ctx   context.Context

	once    sync.Once
	done    chan struct{}
	stopped chan struct{}

	mu        sync.Mutex
	width     int
	cancelled bool
}

// startActivity draws label on w until stop is called or ctx is done.
func startActivity(ctx context.Context, w io.Writer, label string) *activity {
	a := &activity{
		w:       w,
		label:   label,
		start:   time.Now(),
		ctx:     ctx,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go a.loop()
	return a
}

func (a *activity) loop() {
	defer close(a.stopped)
	ticker := time.NewTicker(activityTick)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-a.ctx.Done():
			a.mu.Lock()
			a.cancelled = true
			a.mu.Unlock()
			return
		case <-a.done:
			return
		case <-ticker.C:
			a.draw(activityFrames[i%len(activityFrames)])
		}
	}
}

func (a *activity) draw(frame string) {
	elapsed := time.Since(a.start).Round(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s %s", frame, a.label, elapsed)

	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "\r%s %s %s", styleTitle.Render(frame), styleFaint.Render(a.label), styleNumber.Render(elapsed.String()))
	a.width = max(a.width, len([]rune(line)))
}

// stop ends the animation, clears the line and returns the time since start.
// Calling stop more than once is safe.
func (a *activity) stop() time.Duration {
	elapsed := time.Since(a.start)
	a.once.Do(func() {
		close(a.done)
		<-a.stopped
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.width > 0 {
			fmt.Fprintf(a.w, "\r%s\r", strings.Repeat(" ", a.width))
		}
	})
	return elapsed
}

// interrupted reports whether the parent context ended the activity.
func (a *activity) interrupted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancelled
}
