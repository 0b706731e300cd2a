package runner

// ProgressReporter provides callbacks for reporting run progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnRunStart is called before the first file with the number of paths to process.
	OnRunStart(total int)

	// OnFileProcessed is called after each path, including skipped and failed ones.
	OnFileProcessed(path string, descriptors int)

	// OnComplete is called once the run has finished, successfully or not.
	OnComplete(result *Result)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnRunStart(total int)                         {}
func (n *NoOpProgressReporter) OnFileProcessed(path string, descriptors int) {}
func (n *NoOpProgressReporter) OnComplete(result *Result)                    {}
