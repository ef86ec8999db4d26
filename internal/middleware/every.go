package middleware

import (
    "regexp"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

// the value is kept verbatim; filter.AmountOfPastDays decides whether it is
// a usable window
var everyRe = regexp.MustCompile(`#every/(\w+)`)

type Every struct{}

func (Every) Name() string { return "every" }

func (Every) Parse(t tasks.Task, _ *tasks.Context) tasks.Task {
    m := tasks.FindByRegex(everyRe, t)
    if m == nil { return t }
    out := t.Clone()
    out.Every = m[1]
    out.Body = tasks.CleanBody(everyRe, t)
    return out
}

func (Every) Stringify(t tasks.Task, _ *config.Settings) string {
    if t.Every == "" { return "" }
    return " #every/" + t.Every
}
