// Package dustdoc extracts documentation comments from Dust source files and
// renders them as Markdown, HTML, JSON or YAML.
package dustdoc

import "strings"

// Module holds the documentation extracted from one source file.
type Module struct {
	// ModuleDocs contains documentation for the file as a whole, taken from
	// `//!` and `/*! */` comments and from item docs left unattached at the
	// end of the file.
	ModuleDocs []string `json:"module_docs" yaml:"module_docs"`
	// Items lists the documented top-level declarations in source order.
	Items []Item `json:"items" yaml:"items"`
}

// Item is a single documented top-level declaration.
type Item struct {
	// Kind is the declaration keyword (forge, shape, process, ...).
	Kind string `json:"kind" yaml:"kind"`
	// Name is the declared identifier with trailing `{`, `)` and `(` removed.
	Name string `json:"name" yaml:"name"`
	// Signature is the first line of the declaration, trimmed.
	Signature string `json:"signature" yaml:"signature"`
	// Docs holds the outer doc comment lines preceding the declaration.
	Docs []string `json:"docs" yaml:"docs"`
	// Unsafe is set when the first token of the declaration is `unsafe`.
	Unsafe bool `json:"is_unsafe" yaml:"is_unsafe"`
}

// IsResourceType reports whether the item name follows one of the resource
// type naming conventions (Thread<...>, Mem*, Mutex, File, Port, Device, Ptr).
func (i Item) IsResourceType() bool {
	if strings.HasPrefix(i.Name, "Thread<") || strings.HasPrefix(i.Name, "Mem") {
		return true
	}
	switch i.Name {
	case "Mutex", "File", "Port", "Device", "Ptr":
		return true
	}
	return false
}

// File pairs an extracted module with the path it was read from.
type File struct {
	// Path is the file path as found on disk.
	Path string `json:"path" yaml:"path"`
	// Name is the path relative to the directory that was scanned.
	Name string `json:"name" yaml:"name"`
	// Module is the documentation extracted from the file.
	Module *Module `json:"module" yaml:"module"`
}
