package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// testrunner executes prebuilt test binaries (go test -c output) inside the
// deployment image, where the Go toolchain is not installed. Remote
// integration tests are selected with -remote-run and executed serially so
// they do not race against each other on the deployed gateway.
func main() {
	var (
		testsDir    string
		shortFlag   bool
		pkgParallel int
		count       int
		remoteRun   string
		verbose     bool
	)

	flag.StringVar(&testsDir, "tests-dir", "/app/tests", "directory containing compiled test binaries")
	flag.BoolVar(&shortFlag, "short", false, "run tests with -test.short")
	flag.IntVar(&pkgParallel, "pkg-parallel", runtime.NumCPU(), "number of packages to run in parallel")
	flag.IntVar(&count, "count", 1, "pass -test.count to disable caching when set to 1")
	flag.StringVar(&remoteRun, "remote-run", "", "regex of remote integration test(s) to run with -test.run (requires INTEGRATION_BASE_URL)")
	flag.BoolVar(&verbose, "v", true, "add -test.v to test binaries")
	flag.Parse()

	bins, err := collectTestBinaries(testsDir)
	if err != nil {
		fatal(err)
	}
	if len(bins) == 0 {
		fatal(errors.New("no test binaries found"))
	}

	fmt.Println("==> Running unit tests")
	if err := runBinaries(bins, testArgs(verbose, shortFlag, count, 0), pkgParallel); err != nil {
		fatal(err)
	}

	if remoteRun != "" {
		if os.Getenv("INTEGRATION_BASE_URL") == "" {
			fatal(errors.New("INTEGRATION_BASE_URL must be set for -remote-run"))
		}
		fmt.Printf("==> Running remote integration tests with -test.run=%s\n", remoteRun)
		args := testArgs(verbose, false, count, 1) // force -test.parallel=1 for remote runs
		args = append(args, "-test.run", remoteRun)
		if err := runBinaries(bins, args, 1); err != nil {
			fatal(err)
		}
	}

	fmt.Println("==> All tests passed")
}

func collectTestBinaries(root string) ([]string, error) {
	var bins []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".test") {
			bins = append(bins, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(bins)
	return bins, nil
}

func testArgs(verbose, short bool, count, testParallel int) []string {
	args := []string{}
	if verbose {
		args = append(args, "-test.v")
	}
	if short {
		args = append(args, "-test.short")
	}
	if count > 0 {
		args = append(args, fmt.Sprintf("-test.count=%d", count))
	}
	if testParallel > 0 {
		args = append(args, fmt.Sprintf("-test.parallel=%d", testParallel))
	}
	return args
}

func runBinaries(bins []string, args []string, parallel int) error {
	if len(bins) == 0 {
		return nil
	}
	if parallel < 1 {
		parallel = 1
	}
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, b := range bins {
		b := b
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			cmd := exec.Command(b, args...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			cmd.Env = os.Environ()
			fmt.Printf("[RUN] %s %s\n", b, strings.Join(args, " "))
			if err := cmd.Run(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s failed: %w", b, err)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return firstErr
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
