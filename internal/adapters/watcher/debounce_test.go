package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brianly1003/autosort/internal/domain"
)

const testSettle = 50 * time.Millisecond

type forwardRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *forwardRecorder) forward(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *forwardRecorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func newTestDebouncer(forward func(string)) *Debouncer {
	return NewDebouncer(testSettle, NewTransientFilter([]string{".tmp", ".crdownload"}), forward, zerolog.Nop())
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestDebouncerCoalescesRepeatedCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	writeFile(t, path)

	rec := &forwardRecorder{}
	d := newTestDebouncer(rec.forward)

	d.Created(path)
	d.Created(path)
	d.Created(path)

	waitFor(t, time.Second, func() bool { return len(rec.got()) > 0 })
	time.Sleep(2 * testSettle)

	if got := rec.got(); len(got) != 1 || got[0] != path {
		t.Fatalf("forwarded = %v, want [%s]", got, path)
	}
	if err := d.Stop(time.Second); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestDebouncerDropsVanishedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.pdf")
	writeFile(t, path)

	rec := &forwardRecorder{}
	d := newTestDebouncer(rec.forward)

	d.Created(path)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	waitFor(t, time.Second, func() bool { return d.Pending() == 0 })
	time.Sleep(testSettle)

	if got := rec.got(); len(got) != 0 {
		t.Fatalf("forwarded = %v, want none", got)
	}
}

func TestDebouncerIgnoresTransientAndDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "folder")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rec := &forwardRecorder{}
	d := newTestDebouncer(rec.forward)

	d.Created(filepath.Join(dir, "movie.mp4.crdownload"))
	d.Created(filepath.Join(dir, "report.tmp.pdf"))
	if d.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0 for transient files", d.Pending())
	}

	d.Renamed(filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.pdf"))
	d.Renamed(filepath.Join(dir, "a.tmp"), filepath.Join(dir, "b.crdownload"))
	if d.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0 for ignored renames", d.Pending())
	}

	d.Created(sub)
	waitFor(t, time.Second, func() bool { return d.Pending() == 0 })
	time.Sleep(testSettle)

	if got := rec.got(); len(got) != 0 {
		t.Fatalf("forwarded = %v, want none", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.pdf")
	writeFile(t, path)

	rec := &forwardRecorder{}
	d := newTestDebouncer(rec.forward)

	d.Created(path)
	if err := d.Stop(time.Second); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	d.Created(path)
	time.Sleep(3 * testSettle)

	if got := rec.got(); len(got) != 0 {
		t.Fatalf("forwarded after Stop = %v, want none", got)
	}
}

func TestDebouncerStopTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slow.pdf")
	writeFile(t, path)

	entered := make(chan struct{})
	release := make(chan struct{})
	d := newTestDebouncer(func(string) {
		close(entered)
		<-release
	})

	d.Created(path)
	<-entered

	err := d.Stop(20 * time.Millisecond)
	if !errors.Is(err, domain.ErrCancellationTimeout) {
		t.Fatalf("Stop() error = %v, want ErrCancellationTimeout", err)
	}

	close(release)
	if err := d.Stop(time.Second); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
}

func TestDownloadRenameForwardedOnce(t *testing.T) {
	root := t.TempDir()
	partial := filepath.Join(root, "report.pdf.tmp")
	final := filepath.Join(root, "report.pdf")

	rec := &forwardRecorder{}
	d := newTestDebouncer(rec.forward)
	w := newTestWatcher(root, d)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	writeFile(t, partial)
	if err := os.Rename(partial, final); err != nil {
		t.Fatalf("rename: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return len(rec.got()) > 0 })
	time.Sleep(3 * testSettle)

	if got := rec.got(); len(got) != 1 || got[0] != final {
		t.Fatalf("forwarded = %v, want [%s]", got, final)
	}
	if err := d.Stop(time.Second); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}
