package dustdoc

import (
	"fmt"
	"strings"
)

// resourceTypeNote is appended below items named after a resource type.
const resourceTypeNote = "*Resource type (v0.2)*"

// GenerateMarkdown renders a module as a Markdown document titled with
// fileName.
func GenerateMarkdown(m *Module, fileName string) string {
	var sb strings.Builder
	writeModule(&sb, m, fileName)
	return sb.String()
}

// GenerateMarkdownSet renders several files into one document, each under
// its own top-level heading, in the order given.
func GenerateMarkdownSet(files []File) string {
	var sb strings.Builder
	for _, f := range files {
		writeModule(&sb, f.Module, f.Name)
	}
	return sb.String()
}

func writeModule(sb *strings.Builder, m *Module, fileName string) {
	fmt.Fprintf(sb, "# Documentation for `%s`\n\n", fileName)
	if m == nil {
		return
	}

	if len(m.ModuleDocs) > 0 {
		writeLines(sb, m.ModuleDocs)
		sb.WriteString("\n")
	}

	for _, item := range m.Items {
		writeItem(sb, item)
	}
}

func writeItem(sb *strings.Builder, item Item) {
	badge := ""
	if item.Unsafe {
		badge = " **(unsafe)**"
	}
	fmt.Fprintf(sb, "## %s `%s`%s\n\n", item.Kind, item.Name, badge)

	writeLines(sb, item.Docs)
	sb.WriteString("\n")

	sb.WriteString("```dpl\n")
	sb.WriteString(strings.TrimSpace(item.Signature))
	sb.WriteString("\n```\n\n")

	if item.IsResourceType() {
		sb.WriteString(resourceTypeNote + "\n\n")
	}
}

func writeLines(sb *strings.Builder, lines []string) {
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
