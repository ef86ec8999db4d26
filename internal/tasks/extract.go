package tasks

import "regexp"

// RawFile is a snapshot of one vault file split into lines.
type RawFile struct {
    Path  string
    Lines []string
}

var checklistLine = regexp.MustCompile(`- \[.\]`)

// IsChecklistLine reports whether line carries a markdown checkbox marker,
// whatever its check state.
func IsChecklistLine(line string) bool { return checklistLine.MatchString(line) }

// ExtractFile returns an unparsed task for every checklist line of f.
func ExtractFile(f RawFile) []Task {
    var out []Task
    for i, line := range f.Lines {
        if !IsChecklistLine(line) { continue }
        out = append(out, Task{
            Path:        f.Path,
            LineNumber:  i,
            LineContent: line,
            Body:        line,
        })
    }
    return out
}

// Extract iterates files in the given order and collects their tasks in
// file order, then line order.
func Extract(files []RawFile) []Task {
    out := make([]Task, 0, len(files))
    for _, f := range files {
        out = append(out, ExtractFile(f)...)
    }
    return out
}
