package middleware

import (
    "regexp"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

var bindRe = regexp.MustCompile(`#bind/([\w-]+)`)

// Bind handles #bind/<property>, tying the task to a frontmatter property of
// today's daily note. When the app can resolve the property, its value
// drives the task: true completes it, a number feeds the counter.
type Bind struct{}

func (Bind) Name() string { return "bind" }

func (Bind) Parse(t tasks.Task, ctx *tasks.Context) tasks.Task {
    m := tasks.FindByRegex(bindRe, t)
    if m == nil { return t }
    out := t.Clone()
    out.Bind = m[1]
    out.Body = tasks.CleanBody(bindRe, t)

    if ctx == nil || ctx.App == nil { return out }
    v, ok := ctx.App.DailyProperty(out.Bind)
    if !ok { return out }
    return applyBinding(out, v)
}

func (Bind) Stringify(t tasks.Task, _ *config.Settings) string {
    if t.Bind == "" { return "" }
    return " #bind/" + t.Bind
}

func applyBinding(t tasks.Task, v any) tasks.Task {
    switch val := v.(type) {
    case bool:
        if val { t.Status = tasks.StatusDone }
    case int:
        return bindNumber(t, val)
    case int64:
        return bindNumber(t, int(val))
    case float64:
        return bindNumber(t, int(val))
    }
    return t
}

func bindNumber(t tasks.Task, n int) tasks.Task {
    if t.Counter == nil || t.Counter.Goal == nil { return t }
    goal := *t.Counter.Goal
    if n < 0 { n = 0 }
    if n > goal { n = goal }
    out := t.WithCounter(n, &goal)
    switch {
    case n == goal:
        out.Status = tasks.StatusDone
    case n > 0:
        out.Status = tasks.StatusDoing
    }
    return out
}
