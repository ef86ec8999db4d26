package middleware

import (
    "regexp"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

var completedRe = regexp.MustCompile(`✅ (\d{4}-\d{2}-\d{2})`)

// Completed handles the "✅ YYYY-MM-DD" completion stamp.
type Completed struct{}

func (Completed) Name() string { return "completed" }

func (Completed) Parse(t tasks.Task, _ *tasks.Context) tasks.Task {
    m := tasks.FindByRegex(completedRe, t)
    if m == nil { return t }
    out := t.Clone()
    out.CompletedAt = m[1]
    out.Body = tasks.CleanBody(completedRe, t)
    return out
}

func (Completed) Stringify(t tasks.Task, _ *config.Settings) string {
    if t.CompletedAt == "" { return "" }
    return " ✅ " + t.CompletedAt
}
