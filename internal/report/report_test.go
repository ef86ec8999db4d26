package report

import (
    "bytes"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

func TestCleanOneLine(t *testing.T) {
    cases := []struct {
        in        string
        max       int
        want      string
        changed   bool
        truncated bool
    }{
        {"plain", 0, "plain", false, false},
        {"  two\nlines ", 0, "two lines", true, false},
        {"keep ```code``` out", 0, "keep out", true, false},
        {"unterminated ```fence", 0, "unterminated", true, false},
        {"abcdef", 3, "abc…", true, true},
    }
    for _, c := range cases {
        got, changed, truncated := CleanOneLine(c.in, c.max)
        if got != c.want || changed != c.changed || truncated != c.truncated {
            t.Fatalf("%q: expected (%q,%v,%v), got (%q,%v,%v)", c.in, c.want, c.changed, c.truncated, got, changed, truncated)
        }
    }
}

func TestWriteMarkdown(t *testing.T) {
    s := &config.Settings{Difficulty: map[string]int{"hard": 10}}
    groups := []tasks.Group{
        {Metadata: tasks.GroupMetadata{ID: "work", Title: "Work"}, Tasks: []tasks.Task{
            {Path: "w.md", LineNumber: 2, Body: "ship it", Status: tasks.StatusDone, Difficulty: "hard", CompletedAt: "2026-10-19"},
        }},
        {Tasks: []tasks.Task{
            {Path: "h.md", Body: "pushups", Status: tasks.StatusDoing, Counter: &tasks.Counter{Current: 3, Goal: tasks.IntPtr(5)}},
        }},
    }
    var buf bytes.Buffer
    var last [2]int
    if err := WriteMarkdown(&buf, groups, s, func(cur, total int) { last = [2]int{cur, total} }); err != nil { t.Fatal(err) }
    out := buf.String()
    for _, want := range []string{
        "# Work\n",
        "- [x] ship it (hard 10, done 2026-10-19) `w.md:3`",
        "# Ungrouped\n",
        "- [/] pushups (3/5) `h.md:1`",
    } {
        if !strings.Contains(out, want) { t.Fatalf("missing %q in:\n%s", want, out) }
    }
    if last != [2]int{2, 2} { t.Fatalf("unexpected progress %v", last) }
}

func TestDumpMarkdownDetailsForLongTitles(t *testing.T) {
    p := filepath.Join(t.TempDir(), "dump.md")
    long := strings.Repeat("x", maxTitle+5)
    groups := []tasks.Group{{Tasks: []tasks.Task{{Path: "a.md", Body: long, Status: tasks.StatusTodo}}}}
    if err := DumpMarkdown(groups, nil, p); err != nil { t.Fatal(err) }
    b, err := os.ReadFile(p)
    if err != nil { t.Fatal(err) }
    if !strings.Contains(string(b), "<details>") || !strings.Contains(string(b), long) {
        t.Fatalf("expected details block with full title:\n%s", b)
    }
}

func TestDetail(t *testing.T) {
    task := tasks.Task{
        Path: "n.md", LineNumber: 0, LineContent: "- [ ] read #if/isWeekday/days.js/mon",
        Body: "read", Status: tasks.StatusTodo,
        Condition: &tasks.Condition{Name: "isWeekday", File: "days.js", Arg: "mon"},
    }
    out := Detail(task, nil)
    if !strings.HasPrefix(out, "# read\n") { t.Fatalf("unexpected heading:\n%s", out) }
    if !strings.Contains(out, "`isWeekday(\"mon\")` from `days.js`") { t.Fatalf("missing condition:\n%s", out) }
    if !strings.Contains(out, task.LineContent) { t.Fatalf("missing raw line:\n%s", out) }
}
