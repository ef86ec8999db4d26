package filter

import (
    "testing"
    "time"

    "grind-task-man/internal/history"
    "grind-task-man/internal/tasks"
)

var now = time.Date(2026, 10, 19, 14, 30, 0, 0, time.Local)

func daysAgo(n int) string { return now.AddDate(0, 0, -n).Format(DateLayout) + " 08:15" }

func TestAmountOfPastDays(t *testing.T) {
    cases := map[string]struct {
        n  int
        ok bool
    }{
        "day":    {1, true},
        "3day":   {3, true},
        "week":   {7, true},
        "2week":  {14, true},
        "0day":   {0, true},
        "month":  {0, false},
        "3 days": {0, false},
        "":       {0, false},
    }
    for in, want := range cases {
        n, ok := AmountOfPastDays(in)
        if n != want.n || ok != want.ok { t.Errorf("%q: got (%d,%v), want (%d,%v)", in, n, ok, want.n, want.ok) }
    }
}

func TestPastDays(t *testing.T) {
    got := PastDays(now, 3)
    want := []string{"2026-10-19", "2026-10-18", "2026-10-17"}
    if len(got) != len(want) { t.Fatalf("got %v", got) }
    for i := range want {
        if got[i] != want[i] { t.Fatalf("got %v, want %v", got, want) }
    }
    if len(PastDays(now, 0)) != 0 { t.Fatal("zero window must be empty") }
}

func TestIsRecurringTodayWindow(t *testing.T) {
    tk := tasks.Task{Body: "water plants", Every: "2day"}

    today := []history.Row{{Title: "water plants", Change: 2, Date: daysAgo(0)}}
    if IsRecurringToday(tk, today, now) { t.Fatal("logged today, must not be due") }

    yesterday := []history.Row{{Title: "water plants", Change: 2, Date: daysAgo(1)}}
    if IsRecurringToday(tk, yesterday, now) { t.Fatal("logged inside the 2 day window, must not be due") }

    old := []history.Row{{Title: "water plants", Change: 2, Date: daysAgo(3)}}
    if !IsRecurringToday(tk, old, now) { t.Fatal("logged 3 days ago, must be due") }

    other := []history.Row{{Title: "something else", Change: 2, Date: daysAgo(0)}}
    if !IsRecurringToday(tk, other, now) { t.Fatal("other titles must not suppress the task") }

    iso := []history.Row{{Title: "water plants", Date: now.Format(DateLayout) + "T07:00:00Z"}}
    if IsRecurringToday(tk, iso, now) { t.Fatal("RFC3339 dates must be truncated to the day") }
}

func TestIsRecurringTodayNotRecurring(t *testing.T) {
    if IsRecurringToday(tasks.Task{Body: "x"}, nil, now) { t.Fatal("no every, not recurring") }
    if IsRecurringToday(tasks.Task{Body: "x", Every: "fortnight"}, nil, now) { t.Fatal("unknown spec, not recurring") }
    if IsRecurringToday(tasks.Task{Body: "x", Every: "0day"}, nil, now) { t.Fatal("empty window, not recurring") }
}

func TestIsRecurringTodayCounterOverride(t *testing.T) {
    tk := tasks.Task{Body: "pushups", Every: "day", Status: tasks.StatusDoing}.WithCounter(1, tasks.IntPtr(3))
    rows := []history.Row{{Title: "pushups", Change: 1, Date: daysAgo(0)}}
    if !IsRecurringToday(tk, rows, now) { t.Fatal("in-progress counter must always resurface") }

    full := tasks.Task{Body: "pushups", Every: "day", Status: tasks.StatusDoing}.WithCounter(3, tasks.IntPtr(3))
    if IsRecurringToday(full, rows, now) { t.Fatal("full counter falls back to the history check") }

    todo := tasks.Task{Body: "pushups", Every: "day", Status: tasks.StatusTodo}.WithCounter(1, tasks.IntPtr(3))
    if IsRecurringToday(todo, rows, now) { t.Fatal("override only applies to doing tasks") }
}
