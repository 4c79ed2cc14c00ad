package tracing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	err = Phase(context.Background(), p.Tracer(), SpanLoad, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(Config{Exporter: "otlp"})
	assert.Error(t, err)

	_, err = NewProvider(Config{Exporter: ExporterFile})
	assert.Error(t, err)
}

func TestFileExporter_WritesPhases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "run.jsonl")
	p, err := NewProvider(Config{Exporter: ExporterFile, FilePath: path})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	boom := errors.New("boom")
	err = Phase(context.Background(), p.Tracer(), SpanRun, func(ctx context.Context) error {
		require.NoError(t, Phase(ctx, p.Tracer(), SpanLoad, func(context.Context) error { return nil }, attribute.Int("files", 3)))
		return Phase(ctx, p.Tracer(), SpanOrder, func(context.Context) error { return boom })
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, p.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records := map[string]SpanRecord{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		records[rec.Name] = rec
	}
	require.Len(t, records, 3)
	assert.Equal(t, "OK", records[SpanLoad].Status)
	assert.Equal(t, float64(3), records[SpanLoad].Attributes["files"])
	assert.Equal(t, "ERROR", records[SpanOrder].Status)
	assert.Equal(t, "boom", records[SpanOrder].StatusMsg)
	assert.Equal(t, records[SpanRun].SpanID, records[SpanLoad].ParentSpanID)
	assert.Empty(t, records[SpanRun].ParentSpanID)
}

func TestStdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProvider(Config{Exporter: ExporterStdout, Writer: &buf})
	require.NoError(t, err)
	require.NoError(t, Phase(context.Background(), p.Tracer(), SpanSynthesize, func(context.Context) error { return nil }))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), SpanSynthesize)
}
