package tracing

// Span names.
const (
	SpanHarvestScan = "harvest.scan"
	SpanFileLoad    = "files.load"
	SpanFileSave    = "files.save"
	SpanRunnerRun   = "runner.run"
)

// Span attribute keys.
const (
	AttrDocBytes     = "doc.bytes"
	AttrHarvestAdded = "harvest.added"
	AttrFilePath     = "file.path"
	AttrFileBytes    = "file.bytes"
	AttrRunID        = "run.id"
	AttrRunCommand   = "run.command"
	AttrRunExitCode  = "run.exit_code"
)
