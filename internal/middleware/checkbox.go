package middleware

import (
    "regexp"
    "strings"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

// The lead is everything before the first marker: indentation (tabs or
// spaces), blockquote and callout markers, or plain text.
var checkboxRe = regexp.MustCompile(`^(.*?)- \[(.)\] ?`)

var markToStatus = map[string]tasks.Status{
    " ": tasks.StatusTodo,
    "/": tasks.StatusDoing,
    "x": tasks.StatusDone,
    "X": tasks.StatusDone,
    "-": tasks.StatusDenied,
    ">": tasks.StatusDelay,
}

var statusToMark = map[tasks.Status]string{
    tasks.StatusTodo:   " ",
    tasks.StatusDoing:  "/",
    tasks.StatusDone:   "x",
    tasks.StatusDenied: "-",
    tasks.StatusDelay:  ">",
}

// Checkbox reads the first "- [c] " marker of the line: the text before it
// and the status encoded by the mark character. Unknown marks leave the
// status empty.
type Checkbox struct{}

func (Checkbox) Name() string { return "checkbox" }

func (Checkbox) Parse(t tasks.Task, _ *tasks.Context) tasks.Task {
    // a parsed task already has its indention; the body may legitimately
    // start with another marker
    if t.Indention != nil { return t }
    m := tasks.FindByRegex(checkboxRe, t)
    if m == nil { return t }

    out := t.Clone()
    out.Lead = m[1]
    out.Indention = tasks.IntPtr(len(m[1]))
    if st, ok := markToStatus[m[2]]; ok {
        out.Status = st
    }
    out.Body = strings.TrimSpace(t.Body[len(m[0]):])
    return out
}

// Stringify contributes nothing after the body; see Prefix.
func (Checkbox) Stringify(tasks.Task, *config.Settings) string { return "" }

// Prefix re-emits the parsed lead unchanged. Tasks built in code without a
// lead get Indention spaces.
func (Checkbox) Prefix(t tasks.Task, _ *config.Settings) string {
    indent := t.Lead
    if indent == "" && t.Indention != nil { indent = strings.Repeat(" ", *t.Indention) }
    mark, ok := statusToMark[t.Status]
    if !ok { mark = " " }
    return indent + "- [" + mark + "] "
}
