package middleware

import (
    "fmt"
    "regexp"
    "strconv"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

// Values are bounded to nine digits so every match converts to an int.
var counterRe = regexp.MustCompile(`#count/(\d{1,9})/(\d{1,9})\b`)

// Counter handles #count/<current>/<goal>.
type Counter struct{}

func (Counter) Name() string { return "counter" }

func (Counter) Parse(t tasks.Task, _ *tasks.Context) tasks.Task {
    m := tasks.FindByRegex(counterRe, t)
    if m == nil { return t }
    current, err1 := strconv.Atoi(m[1])
    goal, err2 := strconv.Atoi(m[2])
    if err1 != nil || err2 != nil { return t }

    out := t.WithCounter(current, &goal)
    out.Body = tasks.CleanBody(counterRe, t)
    return out
}

// Stringify drops a counter without goal: such a counter is treated as absent.
func (Counter) Stringify(t tasks.Task, _ *config.Settings) string {
    if t.Counter == nil || t.Counter.Goal == nil { return "" }
    return fmt.Sprintf(" #count/%d/%d", t.Counter.Current, *t.Counter.Goal)
}
