package countdown

import (
	"strconv"
	"testing"
	"time"

	"fstodo/internal/service"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRemaining_Example(t *testing.T) {
	got := Remaining(base.Add(3661*time.Second), base)
	if got != "1h 1m 1s" {
		t.Errorf("expected %q, got %q", "1h 1m 1s", got)
	}
}

func TestRemaining_PastIsExpired(t *testing.T) {
	for _, d := range []time.Duration{-5 * time.Second, -time.Millisecond, -72 * time.Hour, -10 * 365 * 24 * time.Hour} {
		if got := Remaining(base.Add(d), base); got != Expired {
			t.Errorf("deadline %v ago: expected %q, got %q", -d, Expired, got)
		}
	}
}

func TestRemaining_ExactlyNowIsExpired(t *testing.T) {
	if got := Remaining(base, base); got != Expired {
		t.Errorf("expected %q, got %q", Expired, got)
	}
}

func TestRemaining_Decomposition(t *testing.T) {
	for _, d := range []int64{1, 59, 60, 61, 3599, 3600, 86399, 90061, 360000} {
		want := expected(d)
		got := Remaining(base.Add(time.Duration(d)*time.Second), base)
		if got != want {
			t.Errorf("d=%d: expected %q, got %q", d, want, got)
		}
	}
}

func TestRemaining_FloorsFractionalSeconds(t *testing.T) {
	got := Remaining(base.Add(61*time.Second+999*time.Millisecond), base)
	if got != "0h 1m 1s" {
		t.Errorf("expected %q, got %q", "0h 1m 1s", got)
	}
}

func TestRemaining_HoursDoNotWrapIntoDays(t *testing.T) {
	got := Remaining(base.Add(50*time.Hour), base)
	if got != "50h 0m 0s" {
		t.Errorf("expected %q, got %q", "50h 0m 0s", got)
	}
}

func TestSnapshot(t *testing.T) {
	tasks := []service.Task{
		{ID: "a", Deadline: base.Add(3661 * time.Second)},
		{ID: "b", Deadline: base.Add(-5 * time.Second)},
		{ID: "c", Deadline: base.Add(-time.Hour), Completed: true},
	}

	got := Snapshot(tasks, base)

	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got["a"] != "1h 1m 1s" {
		t.Errorf("a: expected %q, got %q", "1h 1m 1s", got["a"])
	}
	if got["b"] != Expired || got["c"] != Expired {
		t.Errorf("expected b and c expired, got %q and %q", got["b"], got["c"])
	}
}

func TestSnapshot_RebuiltEachCall(t *testing.T) {
	tasks := []service.Task{{ID: "a", Deadline: base.Add(10 * time.Second)}}
	first := Snapshot(tasks, base)
	second := Snapshot(nil, base)

	if len(second) != 0 {
		t.Errorf("expected empty snapshot, got %v", second)
	}
	if first["a"] != "0h 0m 10s" {
		t.Errorf("first snapshot mutated: %v", first)
	}
}

func TestClassify(t *testing.T) {
	future := base.Add(time.Hour)
	past := base.Add(-time.Hour)

	cases := []struct {
		name string
		task service.Task
		want State
	}{
		{"active", service.Task{Deadline: future}, StateActive},
		{"expired", service.Task{Deadline: past}, StateExpired},
		{"completed future", service.Task{Deadline: future, Completed: true}, StateCompleted},
		{"completed past", service.Task{Deadline: past, Completed: true}, StateCompleted},
	}
	for _, c := range cases {
		if got := Classify(c.task, base); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestClassify_ExpiryIsNotLatched(t *testing.T) {
	task := service.Task{Deadline: base}
	if Classify(task, base.Add(time.Second)) != StateExpired {
		t.Fatal("expected expired after the deadline")
	}
	task.Deadline = base.Add(time.Hour)
	if Classify(task, base.Add(time.Second)) != StateActive {
		t.Error("expected active again after the deadline moved")
	}
}

func expected(d int64) string {
	return fmtHMS(d/3600, (d%3600)/60, d%60)
}

func fmtHMS(h, m, s int64) string {
	return itoa(h) + "h " + itoa(m) + "m " + itoa(s) + "s"
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
