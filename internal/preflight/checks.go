package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"moviepipe/internal/config"
	"moviepipe/internal/enrichment/omdb"
	"moviepipe/internal/logging"
	"moviepipe/internal/store"
)

// probeIMDbID is a stable, well-known record used for the connectivity probe.
const probeIMDbID = "tt0111161"

// CheckFileReadable verifies that path is a readable regular file.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
// A missing directory passes when its parent is writable, since runs create it.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
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

// CheckStore opens and pings the configured database.
func CheckStore(ctx context.Context, cfg config.Store) Result {
	const name = "Store"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.Open(checkCtx, cfg, logging.NewNop())
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	defer st.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s %s (reachable)", cfg.Driver, st.Target())}
}

// CheckOMDb performs a single lookup by identifier.
func CheckOMDb(ctx context.Context, cfg *config.Config) Result {
	const name = "OMDb"

	client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, omdb.WithTimeout(cfg.RequestTimeout()))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	resp, err := client.LookupByID(ctx, probeIMDbID)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	switch {
	case resp.QuotaExhausted():
		return Result{Name: name, Detail: "daily request limit reached"}
	case resp.OK():
		return Result{Name: name, Passed: true, Detail: "API reachable"}
	case resp.Error != "":
		return Result{Name: name, Detail: resp.Error}
	default:
		return Result{Name: name, Detail: "unexpected response"}
	}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (unreachable)"
	}
	return err.Error()
}
