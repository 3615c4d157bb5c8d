package dustdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the rendering of extracted documentation.
type Format string

// Supported output formats.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat resolves a user supplied format name, accepting the "md" and
// "yml" aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use markdown, html, json or yaml)", s)
	}
}

// Render produces the textual form of a single module.
func Render(m *Module, fileName string, f Format) (string, error) {
	switch f {
	case FormatMarkdown:
		return GenerateMarkdown(m, fileName), nil
	case FormatHTML:
		return MarkdownToHTML(GenerateMarkdown(m, fileName)), nil
	default:
		return encode(m, f)
	}
}

// RenderSet produces the textual form of several files. Markdown and HTML
// concatenate the per-file documents; JSON and YAML emit the file list.
func RenderSet(files []File, f Format) (string, error) {
	switch f {
	case FormatMarkdown:
		return GenerateMarkdownSet(files), nil
	case FormatHTML:
		return MarkdownToHTML(GenerateMarkdownSet(files)), nil
	default:
		return encode(files, f)
	}
}

func encode(v interface{}, f Format) (string, error) {
	var buf bytes.Buffer
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return "", fmt.Errorf("unsupported format: %s", f)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
