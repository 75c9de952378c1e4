package analyzer

// ProgressReporter provides callbacks for reporting analysis progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(totalFiles int)

	// OnFileAnalyzed is called after each file is analyzed, whether it
	// produced a record or a diagnostic.
	OnFileAnalyzed(filePath string)

	// OnComplete is called when the run finishes.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()         {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(int)   {}
func (n *NoOpProgressReporter) OnFileAnalyzed(string)     {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)   {}
