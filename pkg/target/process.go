package target

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"
)

// NewProcessTable builds a process-info object for the running process. It
// carries plain values (pid, platform, versions...) alongside callables
// (cwd, uptime, memoryUsage...), all of which the process surface exposes
// to every client on the execute subject. env is filtered by PublicEnv.
func NewProcessTable() *Table {
	start := time.Now()
	exe, _ := os.Executable()
	env := PublicEnv(os.Environ())

	t := NewTable()
	t.Set("pid", os.Getpid())
	t.Set("ppid", os.Getppid())
	t.Set("platform", runtime.GOOS)
	t.Set("arch", runtime.GOARCH)
	t.Set("execPath", exe)
	t.Set("argv", append([]string(nil), os.Args...))
	t.Set("env", env)
	t.Set("versions", map[string]string{"go": runtime.Version()})
	t.Set("type", "renderer")
	t.Set("_startTime", start.UnixMilli())

	t.SetFunc("cwd", func(_ context.Context, _ []any) (any, error) {
		return os.Getwd()
	})
	t.SetFunc("uptime", func(_ context.Context, _ []any) (any, error) {
		return time.Since(start).Seconds(), nil
	})
	t.SetFunc("hrtime", func(_ context.Context, _ []any) (any, error) {
		ns := time.Since(start).Nanoseconds()
		return []int64{ns / int64(time.Second), ns % int64(time.Second)}, nil
	})
	t.SetFunc("memoryUsage", func(_ context.Context, _ []any) (any, error) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return map[string]uint64{
			"rss":       ms.Sys,
			"heapTotal": ms.HeapSys,
			"heapUsed":  ms.HeapAlloc,
		}, nil
	})
	t.SetFunc("getCPUUsage", func(_ context.Context, _ []any) (any, error) {
		return map[string]int{"numCPU": runtime.NumCPU(), "goroutines": runtime.NumGoroutine()}, nil
	})
	return t
}

var secretEnvMarkers = []string{"DATABASE_URL", "PASSWORD", "PASSWD", "SECRET", "TOKEN", "CREDENTIAL", "KEY", "AUTH"}

// PublicEnv turns KEY=VALUE pairs into a map, dropping variables whose names
// look like they hold credentials.
func PublicEnv(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || secretEnv(k) {
			continue
		}
		env[k] = v
	}
	return env
}

func secretEnv(name string) bool {
	upper := strings.ToUpper(name)
	for _, m := range secretEnvMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}
