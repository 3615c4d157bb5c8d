package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gork-labs/dustdoc/pkg/dustdoc"
)

// FileSystem interface for dependency injection
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Sub(dir string) (fs.FS, error)
}

// DefaultFileSystem implements FileSystem
type DefaultFileSystem struct{}

func (fs *DefaultFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *DefaultFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) // #nosec G304
}

func (fs *DefaultFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (fs *DefaultFileSystem) Sub(dir string) (fs.FS, error) {
	return os.DirFS(dir), nil
}

var defaultFileSystem FileSystem = &DefaultFileSystem{}

// GenerateDocs extracts documentation from config.SourcePath and writes the
// rendered result to config.OutputPath, or to stdout when the output is empty
// or "-".
func GenerateDocs(ctx context.Context, config *GenerateConfig, stdout io.Writer, logger *slog.Logger) error {
	return generateDocsWithFS(ctx, config, stdout, logger, defaultFileSystem)
}

func generateDocsWithFS(ctx context.Context, config *GenerateConfig, stdout io.Writer, logger *slog.Logger, fsys FileSystem) error {
	path, err := loadConfigFile(config, fsys)
	if err != nil {
		return err
	}
	if path != "" {
		logger.Debug("loaded config file", "path", path)
	}

	config.Format = strings.ToLower(strings.TrimSpace(config.Format))
	if err := validateConfig(config); err != nil {
		return err
	}

	format, err := dustdoc.ParseFormat(config.Format)
	if err != nil {
		return err
	}
	if config.HTML {
		format = dustdoc.FormatHTML
	}

	text, err := renderSource(ctx, config, format, logger, fsys)
	if err != nil {
		return err
	}

	return writeOutput(text, config.OutputPath, stdout, logger, fsys)
}

func renderSource(ctx context.Context, config *GenerateConfig, format dustdoc.Format, logger *slog.Logger, fsys FileSystem) (string, error) {
	source := config.SourcePath

	info, err := fsys.Stat(source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}

	if info.IsDir() {
		dir, err := fsys.Sub(source)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		files, err := dustdoc.ParseFS(ctx, dir, config.Workers)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		logger.Debug("parsed directory", "path", source, "files", len(files))
		if config.Name != "" {
			for i := range files {
				files[i].Name = path.Join(config.Name, files[i].Name)
			}
		}
		return dustdoc.RenderSet(files, format)
	}

	data, err := fsys.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	module := dustdoc.Extract(string(data))
	logger.Debug("parsed source",
		"path", source,
		"items", len(module.Items),
		"module_docs", len(module.ModuleDocs))

	name := config.Name
	if name == "" {
		name = filepath.Base(source)
	}
	return dustdoc.Render(module, name, format)
}

func writeOutput(text, outputPath string, stdout io.Writer, logger *slog.Logger, fsys FileSystem) error {
	if outputPath == "" || outputPath == "-" {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}

	if err := fsys.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	logger.Debug("wrote output", "path", outputPath, "bytes", len(text))
	return nil
}
