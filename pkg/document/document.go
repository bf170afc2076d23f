// Package document models Markdown files as addressable lines and
// heading-bounded sections.
//
// A Document is immutable once loaded. Sections are derived views computed
// per query from the Markdown heading structure (leading-# nesting), never
// cached independently of their Document.
package document

import (
	"fmt"
	"os"
	"strings"
)

// Document is a named, loaded piece of text content.
type Document struct {
	// Path is the logical identifier, typically the file path used to load it.
	Path string

	content string
	// lines holds the document split after each newline. Every element keeps
	// its original terminator, except possibly the last.
	lines []string
}

// LineRange is an inclusive pair of 1-based line numbers.
type LineRange struct {
	Start int
	End   int
}

// NotFoundError indicates the file for a Document does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// RangeError indicates a line range outside the bounds of a Document.
type RangeError struct {
	Path  string
	Range LineRange
	Total int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range %d-%d for %s (%d lines)",
		e.Range.Start, e.Range.End, e.Path, e.Total)
}

// Load reads the file at path into a Document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(path, string(data)), nil
}

// New creates a Document from in-memory content.
func New(path, content string) *Document {
	return &Document{
		Path:    path,
		content: content,
		lines:   splitAfterNewlines(content),
	}
}

// splitAfterNewlines splits content into lines, each keeping its terminator.
// A trailing newline does not produce an empty final element.
func splitAfterNewlines(content string) []string {
	if content == "" {
		return nil
	}
	var lines []string
	for len(content) > 0 {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:i+1])
		content = content[i+1:]
	}
	return lines
}

// Content returns the full raw content.
func (d *Document) Content() string {
	return d.content
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// ExtractLines concatenates the given inclusive line ranges in order,
// preserving original line terminators.
func (d *Document) ExtractLines(ranges []LineRange) (string, error) {
	var sb strings.Builder
	for _, r := range ranges {
		if r.Start < 1 || r.Start > r.End || r.End > len(d.lines) {
			return "", &RangeError{Path: d.Path, Range: r, Total: len(d.lines)}
		}
		for i := r.Start - 1; i < r.End; i++ {
			sb.WriteString(d.lines[i])
		}
	}
	return sb.String(), nil
}

// FindSection locates the first heading line containing heading and returns
// the range from that line to the line before the next heading of equal or
// shallower nesting level, or end of file. The boolean is false when no
// heading line matches; callers treat that as a check failure, not an error.
func (d *Document) FindSection(heading string) (LineRange, bool) {
	start := -1
	level := 0
	for i, line := range d.lines {
		l := headingLevel(line)
		if l == 0 {
			continue
		}
		if start < 0 {
			if headingMatches(line, heading) {
				start = i
				level = l
			}
			continue
		}
		if l <= level {
			return LineRange{Start: start + 1, End: i}, true
		}
	}
	if start < 0 {
		return LineRange{}, false
	}
	return LineRange{Start: start + 1, End: len(d.lines)}, true
}

// Section returns the verbatim content of the section located by FindSection.
func (d *Document) Section(heading string) (string, bool) {
	r, ok := d.FindSection(heading)
	if !ok {
		return "", false
	}
	content, err := d.ExtractLines([]LineRange{r})
	if err != nil {
		// FindSection only produces in-bounds ranges.
		return "", false
	}
	return content, true
}

// headingMatches reports whether a heading line matches the query. A query
// carrying its own leading #'s is anchored to the start of the line, so
// "## Setup" cannot match a deeper "### Setup Notes" heading mid-line.
func headingMatches(line, query string) bool {
	trimmed := strings.TrimRight(line, "\r\n")
	if strings.HasPrefix(query, "#") {
		return strings.HasPrefix(trimmed, query)
	}
	return strings.Contains(trimmed, query)
}

// headingLevel returns the Markdown heading level of a line, or 0 when the
// line is not a heading. A heading is 1-6 leading # characters followed by a
// space.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	if n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}
