package dustdoc

import (
	"strings"
	"unicode"
)

// Comment markers, most specific first.
const (
	moduleBlockOpen = "/*!"
	itemBlockOpen   = "/**"
	blockClose      = "*/"
	moduleLineDoc   = "//!"
	itemLineDoc     = "///"
	lineComment     = "//"
	unsafeMarker    = "unsafe"
)

// declarationWords holds every first token that starts a recognized
// top-level declaration: language keywords followed by resource type names.
var declarationWords = map[string]bool{
	"forge": true, "shape": true, "process": true, "bind": true, "effect": true,
	"module": true, "type": true, "trait": true, "enum": true, "const": true,
	"K": true, "Q": true, "Φ": true,
	"alloc": true, "free": true, "spawn": true, "join": true,
	"mutex_new": true, "mutex_lock": true, "mutex_unlock": true,
	"open": true, "read": true, "write": true, "close": true,
	"io_read": true, "io_write": true, "mmio_read": true, "mmio_write": true,
	"unsafe": true,

	"Thread": true, "Mem": true, "Mutex": true, "File": true,
	"Port": true, "Device": true, "Ptr": true,
}

// LineKind classifies a source line that is not inside a block comment.
type LineKind int

const (
	LineCode LineKind = iota
	LineModuleBlockDoc
	LineItemBlockDoc
	LineModuleDoc
	LineItemDoc
	LineComment
	LineBlank
)

func (k LineKind) String() string {
	switch k {
	case LineModuleBlockDoc:
		return "module-block-doc"
	case LineItemBlockDoc:
		return "item-block-doc"
	case LineModuleDoc:
		return "module-line-doc"
	case LineItemDoc:
		return "item-line-doc"
	case LineComment:
		return "comment"
	case LineBlank:
		return "blank"
	default:
		return "code"
	}
}

// Classify reports the kind of a line outside of any open block comment.
// `//!` and `///` are checked before `//`, which is a prefix of both.
func Classify(line string) LineKind {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	switch {
	case strings.HasPrefix(trimmed, moduleBlockOpen):
		return LineModuleBlockDoc
	case strings.HasPrefix(trimmed, itemBlockOpen):
		return LineItemBlockDoc
	case strings.HasPrefix(trimmed, moduleLineDoc):
		return LineModuleDoc
	case strings.HasPrefix(trimmed, itemLineDoc):
		return LineItemDoc
	case strings.HasPrefix(trimmed, lineComment):
		return LineComment
	case trimmed == "":
		return LineBlank
	default:
		return LineCode
	}
}

// IsDeclaration reports whether a code line starts a recognized top-level
// declaration. Matching is on the exact first token, with two exceptions:
// any line beginning with "unsafe", and generic Thread instantiations such
// as `Thread<Int> worker`.
func IsDeclaration(line string) bool {
	trimmed := strings.TrimSpace(line)
	first := firstToken(trimmed)
	if declarationWords[first] || strings.HasPrefix(trimmed, unsafeMarker) {
		return true
	}
	return strings.HasPrefix(first, "Thread") && strings.Contains(first, "<")
}

// IsUnsafe reports whether the line's first token is the unsafe marker.
func IsUnsafe(line string) bool {
	return firstToken(line) == unsafeMarker
}

// ParseSignature builds an Item from a declaration line and its docs.
func ParseSignature(line string, docs []string) Item {
	signature := strings.TrimSpace(line)
	fields := strings.Fields(signature)

	var kind, name string
	if len(fields) > 0 {
		kind = fields[0]
	}
	if len(fields) > 1 {
		name = fields[1]
		name = strings.TrimRight(name, "{")
		name = strings.TrimRight(name, ")")
		name = strings.TrimRight(name, "(")
	}

	return Item{
		Kind:      kind,
		Name:      name,
		Signature: signature,
		Docs:      append([]string(nil), docs...),
		Unsafe:    IsUnsafe(signature),
	}
}

// Extract scans Dust source text and returns its documentation. It never
// fails: malformed or unterminated comments are attributed on a best-effort
// basis.
func Extract(src string) *Module {
	s := &scanner{}
	for _, line := range splitLines(src) {
		s.scan(line)
	}
	return s.finish()
}

type blockKind int

const (
	blockNone blockKind = iota
	blockModule
	blockItem
)

// scanner is the extraction state threaded through the line loop.
type scanner struct {
	moduleDocs []string
	pending    []string
	items      []Item

	block     blockKind
	blockDocs []string
}

func (s *scanner) scan(line string) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if s.block != blockNone {
		s.continueBlock(trimmed)
		return
	}

	switch Classify(trimmed) {
	case LineModuleBlockDoc:
		s.openBlock(blockModule, trimPrefixAll(trimmed, moduleBlockOpen))
	case LineItemBlockDoc:
		s.openBlock(blockItem, trimPrefixAll(trimmed, itemBlockOpen))
	case LineModuleDoc:
		s.moduleDocs = append(s.moduleDocs, strings.TrimSpace(trimPrefixAll(trimmed, moduleLineDoc)))
	case LineItemDoc:
		s.pending = append(s.pending, strings.TrimSpace(trimPrefixAll(trimmed, itemLineDoc)))
	case LineCode:
		s.code(trimmed)
	}
}

// openBlock handles the line that opens a block comment. Text following the
// opener is kept only for one-line blocks.
func (s *scanner) openBlock(kind blockKind, rest string) {
	rest = strings.TrimSpace(rest)
	if end := strings.Index(rest, blockClose); end >= 0 {
		if text := cleanBlockLine(rest[:end]); text != "" {
			s.emit(kind, text)
		}
		return
	}
	s.block = kind
	s.blockDocs = nil
}

func (s *scanner) continueBlock(trimmed string) {
	end := strings.Index(trimmed, blockClose)
	if end < 0 {
		s.blockDocs = append(s.blockDocs, cleanBlockLine(trimmed))
		return
	}
	if text := cleanBlockLine(trimmed[:end]); text != "" {
		s.blockDocs = append(s.blockDocs, text)
	}
	s.closeBlock()
}

func (s *scanner) closeBlock() {
	s.emit(s.block, s.blockDocs...)
	s.block = blockNone
	s.blockDocs = nil
}

func (s *scanner) emit(kind blockKind, lines ...string) {
	if kind == blockModule {
		s.moduleDocs = append(s.moduleDocs, lines...)
	} else {
		s.pending = append(s.pending, lines...)
	}
}

func (s *scanner) code(trimmed string) {
	if len(s.pending) == 0 || !IsDeclaration(trimmed) {
		return
	}
	s.items = append(s.items, ParseSignature(trimmed, s.pending))
	s.pending = nil
}

// finish flushes an unterminated block and folds orphaned item docs into
// the module docs.
func (s *scanner) finish() *Module {
	if s.block != blockNone {
		s.closeBlock()
	}
	m := &Module{
		ModuleDocs: append([]string{}, s.moduleDocs...),
		Items:      append([]Item{}, s.items...),
	}
	m.ModuleDocs = append(m.ModuleDocs, s.pending...)
	s.pending = nil
	return m
}

// splitLines splits on '\n', dropping a trailing '\r' from each line and the
// empty segment after a final newline.
func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func cleanBlockLine(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "*"))
}

func trimPrefixAll(s, prefix string) string {
	for strings.HasPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	return s
}

func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
