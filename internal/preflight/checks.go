package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"gisflow/internal/config"
	"gisflow/internal/records"
)

const checkTimeout = 5 * time.Second

// Pinger is a reachable backend.
type Pinger interface {
	Ping(ctx context.Context) error
	Describe() string
}

// SnapshotLoader reads a full snapshot.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (records.Snapshot, error)
}

type schemaVersioner interface {
	SchemaVersion(ctx context.Context) (int, error)
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTimezone reports the zone calendar years are evaluated in.
func CheckTimezone(cfg *config.Config) Result {
	const name = "Timezone"
	loc := cfg.Location()
	now := time.Now().In(loc)
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (current year %d)", loc, now.Year())}
}

// CheckSource verifies the snapshot source answers and, for the local store,
// reports its schema version.
func CheckSource(ctx context.Context, src Pinger) Result {
	const name = "Snapshot source"

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := src.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", src.Describe(), summarizeError(err))}
	}
	detail := src.Describe() + " (reachable"
	if v, ok := src.(schemaVersioner); ok {
		version, err := v.SchemaVersion(checkCtx)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", src.Describe(), summarizeError(err))}
		}
		detail += fmt.Sprintf(", schema v%d", version)
	}
	return Result{Name: name, Passed: true, Detail: detail + ")"}
}

// CheckSnapshot performs a full read and reports the table sizes.
func CheckSnapshot(ctx context.Context, src SnapshotLoader, cfg *config.Config) Result {
	const name = "Snapshot read"

	checkCtx := ctx
	if timeout := cfg.LoadTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := src.LoadSnapshot(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	detail := fmt.Sprintf("%d documents, %d reviews, %d PINs, %d processing entries, %d clearance rows in %s",
		len(snap.Documents), len(snap.Reviews), len(snap.PINs), len(snap.Processing), len(snap.Clearance),
		time.Since(start).Round(time.Millisecond))
	if len(snap.Clearance) == 0 && !cfg.Workflow.DeriveClearance {
		return Result{Name: name, Passed: true, Detail: detail + "; clearance table empty, every retired PIN will wait at Pending T/C"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckCache verifies the report cache answers.
func CheckCache(ctx context.Context, cache interface {
	Ping(ctx context.Context) error
	Backend() string
}) Result {
	const name = "Report cache"

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := cache.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", cache.Backend(), summarizeError(err))}
	}
	return Result{Name: name, Passed: true, Detail: cache.Backend() + " (reachable)"}
}

// summarizeError produces a human-readable summary for check failures.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out (backend unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (backend unreachable)"
	}
	return err.Error()
}
