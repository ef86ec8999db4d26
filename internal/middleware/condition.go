package middleware

import (
    "regexp"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

var conditionRe = regexp.MustCompile(`#if/([\w-]+)/([\w./-]+)/(\S+)`)

// Condition handles #if/<name>/<file>/<arg>: call function <name> exported
// by script <file> with <arg>. Evaluation happens in package conditions.
type Condition struct{}

func (Condition) Name() string { return "condition" }

func (Condition) Parse(t tasks.Task, _ *tasks.Context) tasks.Task {
    m := tasks.FindByRegex(conditionRe, t)
    if m == nil { return t }
    out := t.Clone()
    out.Condition = &tasks.Condition{Name: m[1], File: m[2], Arg: m[3]}
    out.Body = tasks.CleanBody(conditionRe, t)
    return out
}

func (Condition) Stringify(t tasks.Task, _ *config.Settings) string {
    if t.Condition == nil { return "" }
    c := t.Condition
    return " #if/" + c.Name + "/" + c.File + "/" + c.Arg
}
