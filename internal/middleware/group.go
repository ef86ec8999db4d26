package middleware

import (
    "regexp"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

var groupRe = regexp.MustCompile(`#group/([\w-]+)`)

type Group struct{}

func (Group) Name() string { return "group" }

func (Group) Parse(t tasks.Task, _ *tasks.Context) tasks.Task {
    m := tasks.FindByRegex(groupRe, t)
    if m == nil { return t }
    out := t.Clone()
    out.Group = m[1]
    out.Body = tasks.CleanBody(groupRe, t)
    return out
}

func (Group) Stringify(t tasks.Task, _ *config.Settings) string {
    if t.Group == "" { return "" }
    return " #group/" + t.Group
}
