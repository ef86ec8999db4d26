// Package report renders task lists as markdown, for the -dump flag and the
// detail views of the panel.
package report

import (
    "fmt"
    "io"
    "os"
    "strings"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

const maxTitle = 120

var statusMark = map[tasks.Status]string{
    tasks.StatusTodo:   " ",
    tasks.StatusDoing:  "/",
    tasks.StatusDone:   "x",
    tasks.StatusDenied: "-",
    tasks.StatusDelay:  ">",
}

// DumpMarkdown writes the grouped tasks to filename.
func DumpMarkdown(groups []tasks.Group, s *config.Settings, filename string) error {
    return DumpMarkdownWithProgress(groups, s, filename, nil)
}

// DumpMarkdownWithProgress is like DumpMarkdown but calls progress(cur,total) as it proceeds.
func DumpMarkdownWithProgress(groups []tasks.Group, s *config.Settings, filename string, progress func(int, int)) error {
    f, err := os.Create(filename)
    if err != nil { return err }
    defer f.Close()
    if err := WriteMarkdown(f, groups, s, progress); err != nil { return err }
    return f.Close()
}

// WriteMarkdown renders one section per group with a checklist line per
// task. Titles longer than one line keep their full text in a details block.
func WriteMarkdown(w io.Writer, groups []tasks.Group, s *config.Settings, progress func(int, int)) error {
    total := 0
    for _, g := range groups { total += len(g.Tasks) }
    cur := 0
    for gi, g := range groups {
        if _, err := fmt.Fprintf(w, "# %s\n\n", groupTitle(g)); err != nil { return err }
        for _, t := range g.Tasks {
            writeTask(w, t, s)
            cur++
            if progress != nil { progress(cur, total) }
        }
        if gi != len(groups)-1 { fmt.Fprintln(w) }
    }
    return nil
}

func groupTitle(g tasks.Group) string {
    if g.Metadata.Title != "" { return g.Metadata.Title }
    if g.Metadata.ID != "" { return g.Metadata.ID }
    return "Ungrouped"
}

func writeTask(w io.Writer, t tasks.Task, s *config.Settings) {
    full := strings.TrimSpace(t.Body)
    title, changed, truncated := CleanOneLine(full, maxTitle)
    mark, ok := statusMark[t.Status]
    if !ok { mark = " " }
    fmt.Fprintf(w, "- [%s] %s", mark, title)
    if meta := Meta(t, s); meta != "" { fmt.Fprintf(w, " (%s)", meta) }
    fmt.Fprintf(w, " `%s:%d`\n", t.Path, t.LineNumber+1)
    if changed || truncated {
        fmt.Fprintf(w, "\n  <details><summary>%s</summary>\n\n", escapeHTML(title))
        fmt.Fprintf(w, "  ```\n  %s\n  ```\n\n  </details>\n\n", full)
    }
}

// Meta is a short human summary of a task's metadata channels.
func Meta(t tasks.Task, s *config.Settings) string {
    var parts []string
    if t.Difficulty != "" {
        parts = append(parts, fmt.Sprintf("%s %d", t.Difficulty, s.Price(t.Difficulty)))
    }
    if t.Counter != nil && t.Counter.Goal != nil {
        parts = append(parts, fmt.Sprintf("%d/%d", t.Counter.Current, *t.Counter.Goal))
    }
    if t.Every != "" { parts = append(parts, "every "+t.Every) }
    if t.Bind != "" { parts = append(parts, "bound to "+t.Bind) }
    if t.Condition != nil { parts = append(parts, "if "+t.Condition.Name) }
    if t.CompletedAt != "" { parts = append(parts, "done "+t.CompletedAt) }
    return strings.Join(parts, ", ")
}

// Detail renders one task as a markdown document for the detail view.
func Detail(t tasks.Task, s *config.Settings) string {
    var b strings.Builder
    title, _, _ := CleanOneLine(t.Body, 0)
    if title == "" { title = "(empty)" }
    fmt.Fprintf(&b, "# %s\n\n", title)
    fmt.Fprintf(&b, "- Note: `%s` line %d\n", t.Path, t.LineNumber+1)
    if t.Status != "" { fmt.Fprintf(&b, "- Status: %s\n", t.Status) }
    if t.Difficulty != "" { fmt.Fprintf(&b, "- Difficulty: %s (%d points)\n", t.Difficulty, s.Price(t.Difficulty)) }
    if t.Counter != nil && t.Counter.Goal != nil { fmt.Fprintf(&b, "- Counter: %d of %d\n", t.Counter.Current, *t.Counter.Goal) }
    if t.Every != "" { fmt.Fprintf(&b, "- Every: %s\n", t.Every) }
    if t.Group != "" { fmt.Fprintf(&b, "- Group: %s\n", t.Group) }
    if t.Bind != "" { fmt.Fprintf(&b, "- Bound to daily property `%s`\n", t.Bind) }
    if c := t.Condition; c != nil { fmt.Fprintf(&b, "- Condition: `%s(%q)` from `%s`\n", c.Name, c.Arg, c.File) }
    if t.CompletedAt != "" { fmt.Fprintf(&b, "- Completed: %s\n", t.CompletedAt) }
    fmt.Fprintf(&b, "\n```markdown\n%s\n```\n", strings.TrimRight(t.LineContent, "\r"))
    return b.String()
}
