// Package filter decides which parsed tasks are visible. Every filter is a
// builder that captures its settings and returns a plain Predicate; Build
// combines the active ones.
package filter

import (
    "strings"
    "time"

    "grind-task-man/internal/config"
    "grind-task-man/internal/history"
    "grind-task-man/internal/tasks"
)

type Predicate func(tasks.Task) bool

// StatusAll disables the status filter.
const StatusAll = "all"

// RecurMode decides how the "recurring today" gate meets the other filters.
type RecurMode string

const (
    // RecurStrict shows a task only if it is due today and passes every
    // other filter.
    RecurStrict RecurMode = "strict"
    // RecurOverride shows a task if it is due today or passes every other
    // filter.
    RecurOverride RecurMode = "override"
)

func ParseRecurMode(s string) RecurMode {
    if RecurMode(s) == RecurOverride { return RecurOverride }
    return RecurStrict
}

// Filters is the filter state of a panel. Limit 0 means no limit.
type Filters struct {
    Limit           int
    Search          string
    Status          string
    Recur           bool
    RecurMode       RecurMode
    Tags            string
    OnlyThisTags    bool
    Note            string
    CurrentNoteOnly bool
    ByCondition     bool
}

func Default() Filters { return Filters{Status: StatusAll, RecurMode: RecurStrict} }

// ActiveFile reports the note currently open, if any.
type ActiveFile interface {
    ActivePath() (string, bool)
}

// Evaluator resolves a task condition.
type Evaluator interface {
    Evaluate(c tasks.Condition) (bool, error)
}

// Env is what the predicates need besides the filter state.
type Env struct {
    Active     ActiveFile
    History    []history.Row
    Now        time.Time
    Conditions Evaluator
}

func BySearch(search string) Predicate {
    q := strings.ToLower(search)
    return func(t tasks.Task) bool {
        if t.Body == "" { return true }
        return strings.Contains(strings.ToLower(t.Body), q)
    }
}

// SplitTags turns "a, b,,c" into ["#a" "#b" "#c"].
func SplitTags(filter string) []string {
    var out []string
    for _, tag := range strings.Split(filter, ",") {
        tag = strings.TrimSpace(tag)
        if tag == "" { continue }
        out = append(out, "#"+tag)
    }
    return out
}

func ByTag(filter string, onlyThisTags bool) Predicate {
    tags := SplitTags(filter)
    return func(t tasks.Task) bool {
        if len(tags) == 0 { return true }
        if onlyThisTags {
            for _, tag := range tags {
                if !strings.Contains(t.LineContent, tag) { return false }
            }
            return true
        }
        for _, tag := range tags {
            if strings.Contains(t.LineContent, tag) { return true }
        }
        return false
    }
}

func ByNote(note string, currentOnly bool, active ActiveFile) Predicate {
    return func(t tasks.Task) bool {
        if currentOnly {
            if active == nil { return false }
            p, ok := active.ActivePath()
            if !ok { return false }
            return t.Path == p
        }
        if note == "" { return true }
        return t.Path == note+".md"
    }
}

func ByStatus(status string) Predicate {
    return func(t tasks.Task) bool {
        if status == StatusAll || status == "" { return true }
        if t.Status == "" { return false }
        return string(t.Status) == status
    }
}

func ByToday(rows []history.Row, now time.Time) Predicate {
    return func(t tasks.Task) bool { return IsRecurringToday(t, rows, now) }
}

func ByRecurrence(t tasks.Task) bool { return t.Every != "" }

// ByCondition hides tasks whose condition is not met. Tasks without a
// condition pass; evaluation errors count as not met.
func ByCondition(ev Evaluator) Predicate {
    return func(t tasks.Task) bool {
        if t.Condition == nil { return true }
        if ev == nil { return false }
        ok, err := ev.Evaluate(*t.Condition)
        return err == nil && ok
    }
}

func all(ps []Predicate) Predicate {
    return func(t tasks.Task) bool {
        for _, p := range ps {
            if !p(t) { return false }
        }
        return true
    }
}

// Build returns the visibility predicate for f.
func Build(f Filters, env Env) Predicate {
    now := env.Now
    if now.IsZero() { now = time.Now() }

    ps := []Predicate{
        BySearch(f.Search),
        ByTag(f.Tags, f.OnlyThisTags),
        ByNote(f.Note, f.CurrentNoteOnly, env.Active),
        ByStatus(f.Status),
    }
    if f.ByCondition {
        ps = append(ps, ByCondition(env.Conditions))
    }
    rest := all(ps)
    if !f.Recur { return rest }

    due := ByToday(env.History, now)
    today := func(t tasks.Task) bool { return ByRecurrence(t) && due(t) }
    if f.RecurMode == RecurOverride {
        return func(t tasks.Task) bool { return today(t) || rest(t) }
    }
    return func(t tasks.Task) bool { return today(t) && rest(t) }
}

// Apply keeps the tasks matching p in order, at most limit of them when
// limit is positive.
func Apply(ts []tasks.Task, p Predicate, limit int) []tasks.Task {
    out := make([]tasks.Task, 0, len(ts))
    for _, t := range ts {
        if limit > 0 && len(out) >= limit { break }
        if p(t) { out = append(out, t) }
    }
    return out
}

// Visible is Build followed by Apply with the filter's limit, in scan order.
func Visible(ts []tasks.Task, f Filters, env Env) []tasks.Task {
    return Apply(ts, Build(f, env), f.Limit)
}

// Ranked sorts before applying the limit, so the limit keeps the first
// tasks of the requested order.
func Ranked(ts []tasks.Task, f Filters, env Env, by tasks.SortType, order tasks.SortOrder, s *config.Settings) []tasks.Task {
    return Apply(tasks.Sort(ts, by, order, s), Build(f, env), f.Limit)
}
