package middleware

import (
    "regexp"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

var difficultyRe = regexp.MustCompile(`#diff/([\w-]+)`)

// Difficulty handles #diff/<key>. The key indexes the reward table in
// config.Settings; unknown keys are kept and simply price at 0.
type Difficulty struct{}

func (Difficulty) Name() string { return "difficulty" }

func (Difficulty) Parse(t tasks.Task, _ *tasks.Context) tasks.Task {
    m := tasks.FindByRegex(difficultyRe, t)
    if m == nil { return t }
    out := t.Clone()
    out.Difficulty = m[1]
    out.Body = tasks.CleanBody(difficultyRe, t)
    return out
}

func (Difficulty) Stringify(t tasks.Task, _ *config.Settings) string {
    if t.Difficulty == "" { return "" }
    return " #diff/" + t.Difficulty
}
