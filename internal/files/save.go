package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/shelldesk/internal/log"
	"github.com/zjrosen/shelldesk/internal/tracing"
)

// Save writes content to path through a temp file and rename, so a failed
// write never leaves a truncated file behind. Parent directories are
// created and an existing file keeps its permissions.
func Save(ctx context.Context, path, content string) (err error) {
	_, span := otel.Tracer(tracing.InstrumentationName).Start(ctx, tracing.SpanFileSave,
		trace.WithAttributes(
			attribute.String(tracing.AttrFilePath, path),
			attribute.Int(tracing.AttrFileBytes, len(content)),
		))
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			log.ErrorErr(log.CatFiles, "save failed", err, "path", path)
		}
		span.End()
	}()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", filepath.Base(path))
		}
		mode = info.Mode().Perm()
	}

	temp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(content); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Chmod(mode); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debug(log.CatFiles, "saved", "path", path, "bytes", len(content))
	return nil
}
