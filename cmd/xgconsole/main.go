// Command xgconsole is the ib_console/xgConsole-compatible entry point
// UBT drives to execute an .xge.xml task graph: parse, schedule across a
// bounded worker pool backed by the same cache-checked compiler shims,
// and report progress and exit codes the way the real xgConsole does, so
// scripts built around it need no changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"

	"github.com/octobuild/octobuild/config"
	"github.com/octobuild/octobuild/internal/base"
	"github.com/octobuild/octobuild/octerror"
	"github.com/octobuild/octobuild/worker"
	"github.com/octobuild/octobuild/xge"
)

var logXgConsole = base.NewLogCategory("XgConsole")

type options struct {
	reset        bool
	stopOnErrors bool
	noLogo       bool
	title        string
	profile      string
	graphFiles   []string
}

func parseArgs(argv []string) options {
	opts := options{stopOnErrors: true}
	for _, a := range argv {
		switch {
		case a == "/reset":
			opts.reset = true
		case a == "/stopOnErrors":
			opts.stopOnErrors = true
		case a == "/stopOnErrors-":
			opts.stopOnErrors = false
		case a == "/no_logo":
			opts.noLogo = true
		case strings.HasPrefix(a, "/title="):
			opts.title = a[len("/title="):]
		case strings.HasPrefix(a, "/profile="):
			opts.profile = a[len("/profile="):]
		case a == "/profile":
			opts.profile = "cpu"
		default:
			opts.graphFiles = append(opts.graphFiles, a)
		}
	}
	return opts
}

// startProfile begins a pkg/profile session for the requested kind
// ("cpu" or "mem"), or returns a no-op stopper when profiling wasn't
// requested. Caller stops it with defer.
func startProfile(kind string) interface{ Stop() } {
	switch kind {
	case "cpu":
		return profile.Start(profile.CPUProfile)
	case "mem":
		return profile.Start(profile.MemProfile)
	default:
		return noopStopper{}
	}
}

type noopStopper struct{}

func (noopStopper) Stop() {}

// expandGraphFiles resolves wildcards in each positional path (xgConsole
// expands them itself on Windows, where the shell doesn't); a path
// without glob metacharacters that matches nothing is kept as-is so a
// missing file still surfaces ParseFile's own error instead of silently
// vanishing.
func expandGraphFiles(paths []string) []string {
	var out []string
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil || len(matches) == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, matches...)
	}
	return out
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	opts := parseArgs(argv)
	cfg := config.Load()

	if opts.profile != "" {
		stopper := startProfile(opts.profile)
		defer stopper.Stop()
	}

	if !opts.noLogo {
		fmt.Println("xgConsole (octobuild cache)")
	}
	if opts.title != "" {
		base.LogInfo(logXgConsole, "title: %s", opts.title)
	}

	if opts.reset {
		if err := cfg.NewStore().Reset(); err != nil {
			base.LogError(logXgConsole, "cache reset failed: %v", err)
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool := worker.NewPool(cfg.ProcessLimit)
	defer pool.Close()

	exitCode := 0
	for _, path := range expandGraphFiles(opts.graphFiles) {
		code := runOne(ctx, path, pool)
		if code != 0 {
			exitCode = code
			if opts.stopOnErrors {
				break
			}
		}
	}
	return exitCode
}

func runOne(ctx context.Context, path string, pool *worker.Pool) int {
	tasks, err := xge.ParseFile(path)
	if err != nil {
		base.LogError(logXgConsole, "%v", err)
		return 1
	}

	graph, err := xge.BuildGraph(tasks)
	if err != nil {
		base.LogError(logXgConsole, "%v", err)
		return 1
	}
	base.LogTrace(logXgConsole, "graph %s: %d tasks %v", path, len(graph.Tasks), graph.IDs())

	reporter := xge.NewReporter(len(graph.Tasks))
	err = xge.Run(ctx, graph, xge.RunOptions{Pool: pool, OnEvent: reporter.OnEvent})
	reporter.Close()

	if err == nil {
		return 0
	}

	var interrupted *octerror.Interrupted
	var compileErr *octerror.CompileError
	switch {
	case errors.As(err, &interrupted):
		return 130
	case errors.As(err, &compileErr):
		if compileErr.ExitCode != 0 {
			return int(compileErr.ExitCode)
		}
		return 1
	default:
		base.LogError(logXgConsole, "%v", err)
		return 1
	}
}
