package tracing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.False(t, cfg.Enabled)
	require.Equal(t, "file", cfg.Exporter)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "shelldesk", cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	require.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), SpanHarvestScan)
	require.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.ErrorContains(t, err, "file_path required")

	_, err = NewProvider(Config{Enabled: true, Exporter: "carrier-pigeon"})
	require.ErrorContains(t, err, "unsupported exporter type")
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "traces.jsonl")
	p, err := NewProvider(Config{Enabled: true, Exporter: "file", FilePath: path})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), SpanRunnerRun)
	span.SetAttributes(attribute.Int(AttrRunExitCode, 3))
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var rec SpanRecord
	require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
	require.Equal(t, SpanRunnerRun, rec.Name)
	require.EqualValues(t, 3, rec.Attributes[AttrRunExitCode])
}

func TestNewProvider_NoneExporter(t *testing.T) {
	p, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestFileExporter_StatusAndParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.jsonl")
	exp, err := NewFileExporter(path)
	require.NoError(t, err)

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	ctx, parent := tp.Tracer("test").Start(context.Background(), SpanFileLoad)
	_, child := tp.Tracer("test").Start(ctx, SpanFileSave)
	child.SetStatus(codes.Error, "disk full")
	child.End()
	parent.End()

	require.NoError(t, exp.ExportSpans(context.Background(), rec.Ended()))
	require.NoError(t, exp.Shutdown(context.Background()))
	require.Error(t, exp.ExportSpans(context.Background(), rec.Ended()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitLines(data)
	require.Len(t, lines, 2)

	var first SpanRecord
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.Equal(t, SpanFileSave, first.Name)
	require.Equal(t, "ERROR", first.Status)
	require.Equal(t, "disk full", first.StatusMsg)
	require.NotEmpty(t, first.ParentSpanID)
	_, err = time.Parse(time.RFC3339Nano, first.StartTime)
	require.NoError(t, err)
}

func splitLines(data []byte) [][]byte {
	var out [][]byte
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		out = append(out, append([]byte(nil), sc.Bytes()...))
	}
	return out
}
