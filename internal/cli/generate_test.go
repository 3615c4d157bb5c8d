package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gork-labs/dustdoc/pkg/dustdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return newLogger(io.Discard, false)
}

func TestGenerateDocsWithFS(t *testing.T) {
	tests := []struct {
		name   string
		config GenerateConfig
		files  map[string]string
		want   func(t *testing.T, stdout string)
	}{
		{
			name:   "markdown to stdout",
			config: GenerateConfig{SourcePath: "lib.dust", Format: defaultFormat},
			files:  map[string]string{"lib.dust": sampleSource},
			want: func(t *testing.T, stdout string) {
				want := dustdoc.GenerateMarkdown(dustdoc.Extract(sampleSource), "lib.dust") + "\n"
				assert.Equal(t, want, stdout)
			},
		},
		{
			name:   "dash writes to stdout",
			config: GenerateConfig{SourcePath: "lib.dust", OutputPath: "-", Format: defaultFormat},
			files:  map[string]string{"lib.dust": sampleSource},
			want: func(t *testing.T, stdout string) {
				assert.Contains(t, stdout, "## forge `MyForge`")
			},
		},
		{
			name:   "yaml format",
			config: GenerateConfig{SourcePath: "lib.dust", Format: "yaml"},
			files:  map[string]string{"lib.dust": sampleSource},
			want: func(t *testing.T, stdout string) {
				assert.Contains(t, stdout, "name: make_value")
			},
		},
		{
			name:   "format from default config file",
			config: GenerateConfig{SourcePath: "lib.dust", Format: defaultFormat},
			files: map[string]string{
				"lib.dust":        sampleSource,
				defaultConfigFile: "dustdoc:\n  format: json\n",
			},
			want: func(t *testing.T, stdout string) {
				assert.Contains(t, stdout, `"kind": "forge"`)
			},
		},
		{
			name:   "format is case-insensitive",
			config: GenerateConfig{SourcePath: "lib.dust", Format: "HTML"},
			files:  map[string]string{"lib.dust": sampleSource},
			want: func(t *testing.T, stdout string) {
				assert.Contains(t, stdout, "<h2>forge <code>MyForge</code></h2>")
			},
		},
		{
			name:   "directory with name prefix",
			config: GenerateConfig{SourcePath: "src", Format: defaultFormat, Name: "core"},
			files: map[string]string{
				"src/a.dust":     "/// A.\nforge A {\n",
				"src/lib/b.dust": "/// B.\nshape B {\n",
				"src/notes.txt":  "ignored",
			},
			want: func(t *testing.T, stdout string) {
				assert.Contains(t, stdout, "# Documentation for `core/a.dust`")
				assert.Contains(t, stdout, "# Documentation for `core/lib/b.dust`")
				assert.NotContains(t, stdout, "notes.txt")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			fsys := newTestFS(tt.files)
			err := generateDocsWithFS(context.Background(), &tt.config, &stdout, discardLogger(), fsys)
			require.NoError(t, err)
			tt.want(t, stdout.String())
		})
	}
}

func TestGenerateDocsWithFS_WritesOutput(t *testing.T) {
	fsys := newTestFS(map[string]string{"lib.dust": sampleSource})
	config := &GenerateConfig{SourcePath: "lib.dust", OutputPath: "lib.html", Format: defaultFormat, HTML: true}

	var stdout bytes.Buffer
	require.NoError(t, generateDocsWithFS(context.Background(), config, &stdout, discardLogger(), fsys))

	assert.Empty(t, stdout.String())
	require.Contains(t, fsys.written, "lib.html")
	assert.Contains(t, string(fsys.written["lib.html"]), "<h2>process <code>make_value</code></h2>")
}

func TestGenerateDocsWithFS_WriteError(t *testing.T) {
	fsys := newTestFS(map[string]string{"lib.dust": sampleSource})
	fsys.writeErr = errors.New("disk full")
	config := &GenerateConfig{SourcePath: "lib.dust", OutputPath: "out.md", Format: defaultFormat}

	err := generateDocsWithFS(context.Background(), config, io.Discard, discardLogger(), fsys)
	require.Error(t, err)
	assert.Equal(t, "failed to write out.md: disk full", err.Error())
}

func TestGenerateDocsWithFS_MissingSource(t *testing.T) {
	fsys := newTestFS(map[string]string{})
	config := &GenerateConfig{SourcePath: "nope.dust", Format: defaultFormat}

	err := generateDocsWithFS(context.Background(), config, io.Discard, discardLogger(), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read nope.dust")
}

func TestGenerateDocsWithFS_BadConfigFile(t *testing.T) {
	fsys := newTestFS(map[string]string{"lib.dust": sampleSource, "c.yml": "dustdoc: [\n"})
	config := &GenerateConfig{SourcePath: "lib.dust", Format: defaultFormat, ConfigPath: "c.yml"}

	err := generateDocsWithFS(context.Background(), config, io.Discard, discardLogger(), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
