package vault

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "regexp"
    "strings"

    "github.com/natefinch/atomic"

    "grind-task-man/internal/tasks"
)

// ErrStale means the note changed since the task was scanned.
var ErrStale = errors.New("task line changed on disk")

// WriteLine replaces the line of t with line. The current content must
// still equal t.LineContent.
func WriteLine(root string, t tasks.Task, line string) error {
    path := filepath.Join(root, filepath.FromSlash(t.Path))
    b, err := os.ReadFile(path)
    if err != nil { return fmt.Errorf("read %s: %w", t.Path, err) }
    lines := SplitLines(string(b))
    if t.LineNumber < 0 || t.LineNumber >= len(lines) {
        return fmt.Errorf("%s:%d: %w", t.Path, t.LineNumber, ErrStale)
    }
    // keep CRLF notes intact
    cur := strings.TrimSuffix(lines[t.LineNumber], "\r")
    if cur != strings.TrimSuffix(t.LineContent, "\r") {
        return fmt.Errorf("%s:%d: %w", t.Path, t.LineNumber, ErrStale)
    }
    if strings.HasSuffix(lines[t.LineNumber], "\r") { line += "\r" }
    lines[t.LineNumber] = line
    return writeFile(path, strings.Join(lines, "\n"))
}

var frontmatterRe = regexp.MustCompile(`^---\r?\n[\s\S]*?\r?\n---\r?\n`)

// AppendStartIgnoringFrontmatter inserts text at the start of data, after
// the frontmatter block when there is one.
func AppendStartIgnoringFrontmatter(data, text string) string {
    if loc := frontmatterRe.FindStringIndex(data); loc != nil {
        return data[:loc[1]] + text + data[loc[1]:]
    }
    return text + data
}

// AppendTask adds line as the first content line of note (vault-relative,
// with or without .md). The note is created when missing.
func AppendTask(root, note, line string) error {
    if !IsNote(note) { note += ".md" }
    path := filepath.Join(root, filepath.FromSlash(note))
    b, err := os.ReadFile(path)
    if err != nil && !os.IsNotExist(err) { return fmt.Errorf("read %s: %w", note, err) }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    return writeFile(path, AppendStartIgnoringFrontmatter(string(b), line+"\n"))
}

func writeFile(path, content string) error {
    if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
        return fmt.Errorf("write %s: %w", path, err)
    }
    return nil
}
