// Package vault connects the task core to a directory of markdown notes.
package vault

import (
    "io/fs"
    "os"
    "path/filepath"
    "sort"
    "strings"

    "grind-task-man/internal/tasks"
)

// SplitLines splits file content the way the line numbers of tasks count.
func SplitLines(content string) []string { return strings.Split(content, "\n") }

// IsNote reports whether name is a markdown note.
func IsNote(name string) bool { return strings.EqualFold(filepath.Ext(name), ".md") }

func skipDir(name string) bool { return strings.HasPrefix(name, ".") && name != "." }

// NotePaths lists every note below root as slash-separated paths relative
// to root, sorted.
func NotePaths(root string) ([]string, error) {
    var out []string
    err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
        if err != nil { return nil }
        if d.IsDir() {
            if path != root && skipDir(d.Name()) { return filepath.SkipDir }
            return nil
        }
        if !IsNote(d.Name()) { return nil }
        rel, err := filepath.Rel(root, path)
        if err != nil { return nil }
        out = append(out, filepath.ToSlash(rel))
        return nil
    })
    if err != nil { return nil, err }
    sort.Strings(out)
    return out, nil
}

// ReadFile loads one note.
func ReadFile(root, rel string) (tasks.RawFile, error) {
    b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
    if err != nil { return tasks.RawFile{}, err }
    return tasks.RawFile{Path: rel, Lines: SplitLines(string(b))}, nil
}

// ReadFiles loads every note below root. Unreadable notes are skipped.
func ReadFiles(root string) ([]tasks.RawFile, error) {
    paths, err := NotePaths(root)
    if err != nil { return nil, err }
    out := make([]tasks.RawFile, 0, len(paths))
    for _, p := range paths {
        f, err := ReadFile(root, p)
        if err != nil { continue }
        out = append(out, f)
    }
    return out, nil
}

// ActiveNote is the vault-relative path of the note the user is looking at.
type ActiveNote string

func (a ActiveNote) ActivePath() (string, bool) { return string(a), a != "" }
