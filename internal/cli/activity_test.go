package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestActivityDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	a := startActivity(context.Background(), &buf, "Drawing scene view")
	time.Sleep(3 * activityTick)
	elapsed := a.stop()

	out := buf.String()
	if !strings.Contains(out, "Drawing scene view") {
		t.Errorf("output %q does not carry the label", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q does not end by clearing the line", out)
	}
	if elapsed < 3*activityTick {
		t.Errorf("elapsed = %v, want at least %v", elapsed, 3*activityTick)
	}
	if a.interrupted() {
		t.Error("interrupted() = true after a normal stop")
	}
}

func TestActivityStopBeforeFirstFrame(t *testing.T) {
	var buf bytes.Buffer
	a := startActivity(context.Background(), &buf, "quick")
	a.stop()
	a.stop()
	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing for an activity stopped before its first frame", buf.String())
	}
}

func TestActivityInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	a := startActivity(ctx, &buf, "Drawing graph view")
	cancel()

	deadline := time.Now().Add(time.Second)
	for !a.interrupted() {
		if time.Now().After(deadline) {
			t.Fatal("activity did not notice the cancelled context")
		}
		time.Sleep(10 * time.Millisecond)
	}
	a.stop()
}
