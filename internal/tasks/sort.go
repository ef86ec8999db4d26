package tasks

import (
    "sort"
    "strings"

    "grind-task-man/internal/config"
)

type SortType string

const (
    SortNone       SortType = "none"
    SortStatus     SortType = "status"
    SortDifficulty SortType = "difficulty"
    SortBody       SortType = "body"
    SortPath       SortType = "path"
    SortCounter    SortType = "counter"
)

var SortTypes = []SortType{SortNone, SortStatus, SortDifficulty, SortBody, SortPath, SortCounter}

type SortOrder string

const (
    SortAsc  SortOrder = "asc"
    SortDesc SortOrder = "desc"
)

var statusRank = map[Status]int{
    StatusTodo:   0,
    StatusDoing:  1,
    StatusDelay:  2,
    StatusDone:   3,
    StatusDenied: 4,
}

// Sort returns a sorted copy of ts. The sort is stable; SortNone keeps the
// scan order whatever the direction.
func Sort(ts []Task, by SortType, order SortOrder, s *config.Settings) []Task {
    out := make([]Task, len(ts))
    copy(out, ts)
    less := lessFunc(by, s)
    if less == nil { return out }
    sort.SliceStable(out, func(i, j int) bool {
        if order == SortDesc { return less(out[j], out[i]) }
        return less(out[i], out[j])
    })
    return out
}

func lessFunc(by SortType, s *config.Settings) func(a, b Task) bool {
    switch by {
    case SortStatus:
        return func(a, b Task) bool { return rankStatus(a.Status) < rankStatus(b.Status) }
    case SortDifficulty:
        return func(a, b Task) bool { return s.Price(a.Difficulty) < s.Price(b.Difficulty) }
    case SortBody:
        return func(a, b Task) bool { return strings.ToLower(a.Body) < strings.ToLower(b.Body) }
    case SortPath:
        return func(a, b Task) bool {
            if a.Path != b.Path { return a.Path < b.Path }
            return a.LineNumber < b.LineNumber
        }
    case SortCounter:
        return func(a, b Task) bool { return progress(a) < progress(b) }
    default:
        return nil
    }
}

// tasks without status sort last
func rankStatus(st Status) int {
    if r, ok := statusRank[st]; ok { return r }
    return len(statusRank)
}

func progress(t Task) float64 {
    if t.Counter == nil || t.Counter.Goal == nil || *t.Counter.Goal == 0 { return -1 }
    return float64(t.Counter.Current) / float64(*t.Counter.Goal)
}
