package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"codescope/internal/analyzer"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet   bool
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Analyzing %d files\n", totalFiles)

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileAnalyzed(filePath string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *analyzer.Stats) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Println()
	fmt.Printf("✓ Analysis complete: %d files in %.1fs\n",
		stats.FilesAnalyzed, stats.Duration.Seconds())
	if stats.FilesSkipped > 0 {
		fmt.Printf("  Skipped:  %d\n", stats.FilesSkipped)
	}
	if stats.FilesFailed > 0 {
		fmt.Printf("  Degraded: %d\n", stats.FilesFailed)
	}
	if stats.CacheHits > 0 {
		fmt.Printf("  Cached:   %d\n", stats.CacheHits)
	}
}
