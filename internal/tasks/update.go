package tasks

import (
    "errors"
    "time"

    "grind-task-man/internal/config"
)

var (
    ErrNoCounter         = errors.New("task has no counter goal")
    ErrCounterOutOfRange = errors.New("counter out of range")
)

// RewardDelta is a change of reward points earned by a task. The caller
// appends it to the history log.
type RewardDelta struct {
    Title  string
    Change int
}

// CompletedLayout is the date layout of the completion stamp.
const CompletedLayout = "2006-01-02"

// SetStatus returns t moved to st together with the reward changes that the
// move earns. Counter tasks are rewarded per step by AddCounter instead.
func SetStatus(t Task, st Status, s *config.Settings, now time.Time) (Task, []RewardDelta) {
    prev := t.Status
    out := t.Clone()
    out.Status = st
    if st == StatusDone && prev != StatusDone {
        out.CompletedAt = now.In(time.Local).Format(CompletedLayout)
    } else if st != StatusDone {
        out.CompletedAt = ""
    }

    if t.Counter != nil || t.Difficulty == "" {
        return out, nil
    }
    price := s.Price(t.Difficulty)
    var deltas []RewardDelta
    if st == StatusDone && prev != StatusDone {
        deltas = append(deltas, RewardDelta{Title: t.Body, Change: price})
    }
    if prev == StatusDone && st != StatusDone {
        deltas = append(deltas, RewardDelta{Title: t.Body, Change: -price})
    }
    return out, deltas
}

// AddCounter moves the counter by delta. Reaching the goal marks the task
// done, anything below it marks it doing.
func AddCounter(t Task, delta int, s *config.Settings, now time.Time) (Task, []RewardDelta, error) {
    if t.Counter == nil || t.Counter.Goal == nil {
        return t, nil, ErrNoCounter
    }
    goal := *t.Counter.Goal
    next := t.Counter.Current + delta
    if next < 0 || next > goal {
        return t, nil, ErrCounterOutOfRange
    }

    out := t.WithCounter(next, &goal)
    if next == goal {
        out.Status = StatusDone
        out.CompletedAt = now.In(time.Local).Format(CompletedLayout)
    } else {
        out.Status = StatusDoing
        out.CompletedAt = ""
    }

    var deltas []RewardDelta
    if t.Difficulty != "" && delta != 0 {
        deltas = append(deltas, RewardDelta{Title: t.Body, Change: s.Price(t.Difficulty) * delta})
    }
    return out, deltas, nil
}
