package tasks

import "strconv"

// Status is the progress state of a task. The zero value means the task
// carries no status.
type Status string

const (
    StatusTodo   Status = "todo"
    StatusDoing  Status = "doing"
    StatusDone   Status = "done"
    StatusDenied Status = "denied"
    StatusDelay  Status = "delay"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone, StatusDenied, StatusDelay}

// ParseStatus reports whether s names a known status.
func ParseStatus(s string) (Status, bool) {
    for _, st := range Statuses {
        if string(st) == s { return st, true }
    }
    return "", false
}

type Counter struct {
    Current int  `json:"current"`
    Goal    *int `json:"goal,omitempty"`
}

// Full reports whether the counter has a goal and reached it.
func (c Counter) Full() bool { return c.Goal != nil && c.Current == *c.Goal }

// Condition references a predicate exported by a script in the conditions dir.
type Condition struct {
    Name string `json:"name"`
    File string `json:"file"`
    Arg  string `json:"arg"`
}

// Task is one checklist line. Tasks are values: helpers return modified
// copies and never touch the receiver's pointer fields.
type Task struct {
    Path        string     `json:"path"`
    LineNumber  int        `json:"lineNumber"`
    LineContent string     `json:"lineContent"`
    Body        string     `json:"body"`
    Indention   *int       `json:"indention,omitempty"`
    Lead        string     `json:"lead,omitempty"` // text before the checkbox marker, kept verbatim
    CompletedAt string     `json:"completedAt,omitempty"`
    Difficulty  string     `json:"difficulty,omitempty"`
    Status      Status     `json:"status,omitempty"`
    Every       string     `json:"every,omitempty"`
    Bind        string     `json:"bind,omitempty"`
    Counter     *Counter   `json:"counter,omitempty"`
    Group       string     `json:"group,omitempty"`
    Condition   *Condition `json:"condition,omitempty"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
    out := t
    if t.Indention != nil {
        n := *t.Indention
        out.Indention = &n
    }
    if t.Counter != nil {
        c := *t.Counter
        if t.Counter.Goal != nil {
            g := *t.Counter.Goal
            c.Goal = &g
        }
        out.Counter = &c
    }
    if t.Condition != nil {
        c := *t.Condition
        out.Condition = &c
    }
    return out
}

// WithCounter returns a copy of t with the given counter.
func (t Task) WithCounter(current int, goal *int) Task {
    out := t.Clone()
    c := Counter{Current: current}
    if goal != nil {
        g := *goal
        c.Goal = &g
    }
    out.Counter = &c
    return out
}

// Key identifies a task within one scan.
func (t Task) Key() string { return t.Path + ":" + strconv.Itoa(t.LineNumber) }

// IntPtr is a small helper for optional ints.
func IntPtr(n int) *int { return &n }
