package format

import (
	"fmt"
	"strings"
)

// DiffMode represents the type of diff output.
type DiffMode int

const (
	DiffModeUnified    DiffMode = iota // Unified diff format (default)
	DiffModeContext                    // Context diff format
	DiffModeSideBySide                 // Side-by-side diff format
)

// ParseDiffMode maps a mode name ("unified", "context", "side") to a DiffMode.
func ParseDiffMode(name string) (DiffMode, error) {
	switch name {
	case "", "unified", "u":
		return DiffModeUnified, nil
	case "context", "c":
		return DiffModeContext, nil
	case "side", "side-by-side", "y":
		return DiffModeSideBySide, nil
	}
	return 0, fmt.Errorf("unknown diff mode %q", name)
}

// DiffOptions controls diff generation.
type DiffOptions struct {
	Mode        DiffMode // Diff output format
	Context     int      // Number of context lines to show
	IgnoreSpace bool     // Ignore whitespace differences
	ShowNumbers bool     // Show line numbers
	TabWidth    int      // Tab display width
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		Mode:     DiffModeUnified,
		Context:  3,
		TabWidth: 4,
	}
}

// DiffResult represents the result of a diff operation.
type DiffResult struct {
	Hunks      []Hunk
	Stats      DiffStat
	HasChanges bool
}

// Hunk represents a contiguous block of changes with surrounding context.
type Hunk struct {
	Header        string
	Lines         []Line
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
}

// Line represents a single line in a diff. Number is the line number in the
// original for context and removed lines, in the modified text for added ones.
type Line struct {
	Content string
	Type    LineType
	Number  int
}

// LineType represents the type of a diff line.
type LineType int

const (
	LineTypeContext LineType = iota // Unchanged context line
	LineTypeAdded                   // Added line (+)
	LineTypeRemoved                 // Removed line (-)
)

// DiffStat contains statistics about changes.
type DiffStat struct {
	LinesAdded   int // Number of lines added
	LinesRemoved int // Number of lines removed
}

// DiffFormatter generates formatted diffs between source files.
type DiffFormatter struct {
	options DiffOptions
}

// NewDiffFormatter creates a new diff formatter.
func NewDiffFormatter(options DiffOptions) *DiffFormatter {
	if options.Context < 0 {
		options.Context = 0
	}
	if options.TabWidth <= 0 {
		options.TabWidth = 4
	}
	return &DiffFormatter{options: options}
}

// op is one step of the edit script. a and b count the original and
// modified lines that precede it.
type op struct {
	typ     LineType
	a, b    int
	content string
}

// GenerateDiff creates a diff between original and modified source.
func (df *DiffFormatter) GenerateDiff(original, modified string) *DiffResult {
	a := splitLines(original)
	b := splitLines(modified)

	ops := df.editScript(a, b)
	hunks := df.hunks(ops)

	return &DiffResult{
		HasChanges: len(hunks) > 0,
		Hunks:      hunks,
		Stats:      calculateStats(hunks),
	}
}

// editScript computes a shortest edit script from a longest common
// subsequence table. Deletions are emitted before insertions at each point
// of difference.
func (df *DiffFormatter) editScript(a, b []string) []op {
	ka, kb := df.keys(a), df.keys(b)
	n, m := len(a), len(b)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if ka[i] == kb[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	ops := make([]op, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case ka[i] == kb[j]:
			ops = append(ops, op{typ: LineTypeContext, a: i, b: j, content: a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, op{typ: LineTypeRemoved, a: i, b: j, content: a[i]})
			i++
		default:
			ops = append(ops, op{typ: LineTypeAdded, a: i, b: j, content: b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, op{typ: LineTypeRemoved, a: i, b: m, content: a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, op{typ: LineTypeAdded, a: n, b: j, content: b[j]})
	}
	return ops
}

// keys returns the comparison key of each line.
func (df *DiffFormatter) keys(lines []string) []string {
	if !df.options.IgnoreSpace {
		return lines
	}
	tab := strings.Repeat(" ", df.options.TabWidth)
	keys := make([]string, len(lines))
	for i, line := range lines {
		keys[i] = strings.TrimRight(strings.ReplaceAll(line, "\t", tab), " ")
	}
	return keys
}

// hunks groups changes that are at most 2*Context lines apart.
func (df *DiffFormatter) hunks(ops []op) []Hunk {
	ctx := df.options.Context

	var hunks []Hunk
	for start := 0; start < len(ops); {
		// Find the next change.
		first := start
		for first < len(ops) && ops[first].typ == LineTypeContext {
			first++
		}
		if first == len(ops) {
			break
		}

		// Extend while the gap of unchanged lines stays small.
		last := first
		for k := first + 1; k < len(ops); k++ {
			if ops[k].typ == LineTypeContext {
				continue
			}
			if k-last-1 > 2*ctx {
				break
			}
			last = k
		}

		lo := max(start, first-ctx)
		hi := min(len(ops)-1, last+ctx)
		hunks = append(hunks, makeHunk(ops[lo:hi+1]))
		start = hi + 1
	}
	return hunks
}

func makeHunk(ops []op) Hunk {
	var h Hunk
	for _, o := range ops {
		line := Line{Type: o.typ, Content: o.content, Number: o.a + 1}
		switch o.typ {
		case LineTypeContext:
			h.OriginalCount++
			h.ModifiedCount++
		case LineTypeRemoved:
			h.OriginalCount++
		case LineTypeAdded:
			line.Number = o.b + 1
			h.ModifiedCount++
		}
		h.Lines = append(h.Lines, line)
	}

	// An empty side is addressed by the line that precedes the hunk.
	h.OriginalStart, h.ModifiedStart = ops[0].a, ops[0].b
	if h.OriginalCount > 0 {
		h.OriginalStart++
	}
	if h.ModifiedCount > 0 {
		h.ModifiedStart++
	}

	h.Header = fmt.Sprintf("@@ -%d,%d +%d,%d @@",
		h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
	return h
}

// FormatDiff formats a diff result as a string.
func (df *DiffFormatter) FormatDiff(filename string, result *DiffResult) string {
	if !result.HasChanges {
		return ""
	}

	var output strings.Builder

	switch df.options.Mode {
	case DiffModeUnified:
		fmt.Fprintf(&output, "--- %s\t(original)\n", filename)
		fmt.Fprintf(&output, "+++ %s\t(formatted)\n", filename)
	case DiffModeContext:
		fmt.Fprintf(&output, "*** %s\t(original)\n", filename)
		fmt.Fprintf(&output, "--- %s\t(formatted)\n", filename)
	case DiffModeSideBySide:
		fmt.Fprintf(&output, "%-40s | %s\n", filename+" (original)", filename+" (formatted)")
		output.WriteString(strings.Repeat("-", 83) + "\n")
	}

	for _, hunk := range result.Hunks {
		df.formatHunk(&output, hunk)
	}

	return output.String()
}

func (df *DiffFormatter) formatHunk(output *strings.Builder, hunk Hunk) {
	switch df.options.Mode {
	case DiffModeUnified:
		df.formatUnifiedHunk(output, hunk)
	case DiffModeContext:
		df.formatContextHunk(output, hunk)
	case DiffModeSideBySide:
		df.formatSideBySideHunk(output, hunk)
	}
}

func (df *DiffFormatter) formatUnifiedHunk(output *strings.Builder, hunk Hunk) {
	output.WriteString(hunk.Header + "\n")

	for _, line := range hunk.Lines {
		prefix := linePrefix(line.Type)
		if df.options.ShowNumbers {
			fmt.Fprintf(output, "%s%4d: %s\n", prefix, line.Number, line.Content)
		} else {
			fmt.Fprintf(output, "%s%s\n", prefix, line.Content)
		}
	}
}

func (df *DiffFormatter) formatContextHunk(output *strings.Builder, hunk Hunk) {
	output.WriteString("***************\n")
	fmt.Fprintf(output, "*** %s ****\n", lineRange(hunk.OriginalStart, hunk.OriginalCount))

	for _, line := range hunk.Lines {
		if line.Type != LineTypeAdded {
			fmt.Fprintf(output, "%s %s\n", contextPrefix(line.Type), line.Content)
		}
	}

	fmt.Fprintf(output, "--- %s ----\n", lineRange(hunk.ModifiedStart, hunk.ModifiedCount))

	for _, line := range hunk.Lines {
		if line.Type != LineTypeRemoved {
			fmt.Fprintf(output, "%s %s\n", contextPrefix(line.Type), line.Content)
		}
	}
}

func (df *DiffFormatter) formatSideBySideHunk(output *strings.Builder, hunk Hunk) {
	for _, line := range hunk.Lines {
		lineNum := ""
		if df.options.ShowNumbers {
			lineNum = fmt.Sprintf("%4d: ", line.Number)
		}
		width := 40 - len(lineNum)

		switch line.Type {
		case LineTypeContext:
			fmt.Fprintf(output, "%s%-*s | %s%s\n",
				lineNum, width, truncate(line.Content, width),
				lineNum, truncate(line.Content, width))
		case LineTypeRemoved:
			fmt.Fprintf(output, "%s%-*s <\n", lineNum, width, truncate(line.Content, width))
		case LineTypeAdded:
			fmt.Fprintf(output, "%40s > %s%s\n", "", lineNum, truncate(line.Content, width))
		}
	}
}

func linePrefix(t LineType) string {
	switch t {
	case LineTypeAdded:
		return "+"
	case LineTypeRemoved:
		return "-"
	}
	return " "
}

func contextPrefix(t LineType) string {
	if t == LineTypeContext {
		return " "
	}
	return "!"
}

func lineRange(start, count int) string {
	if count <= 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, start+count-1)
}

func calculateStats(hunks []Hunk) DiffStat {
	var stats DiffStat
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineTypeAdded:
				stats.LinesAdded++
			case LineTypeRemoved:
				stats.LinesRemoved++
			}
		}
	}
	return stats
}

// splitLines splits text into lines, dropping line terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// SourceWithDiff formats text and returns both the formatted source and its
// diff against text ("" when unchanged).
func SourceWithDiff(filename, text string, opts PrintOptions, diffOptions DiffOptions) (formatted string, diff string, err error) {
	formatted, err = Source(text, opts)
	if err != nil {
		return "", "", err
	}

	if formatted != text {
		formatter := NewDiffFormatter(diffOptions)
		diff = formatter.FormatDiff(filename, formatter.GenerateDiff(text, formatted))
	}

	return formatted, diff, nil
}
