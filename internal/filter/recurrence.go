package filter

import (
    "regexp"
    "strconv"
    "strings"
    "time"

    "grind-task-man/internal/history"
    "grind-task-man/internal/tasks"
)

// DateLayout is the ISO calendar date used for recurrence windows.
const DateLayout = "2006-01-02"

var everySpec = regexp.MustCompile(`^(\d+)?(day|week)$`)

// AmountOfPastDays converts a recurrence spec such as "day", "3day" or
// "2week" into a number of days. ok is false when spec does not follow the
// grammar.
func AmountOfPastDays(spec string) (int, bool) {
    m := everySpec.FindStringSubmatch(spec)
    if m == nil { return 0, false }
    n := 1
    if m[1] != "" {
        v, err := strconv.Atoi(m[1])
        if err != nil { return 0, false }
        n = v
    }
    if m[2] == "week" { n *= 7 }
    return n, true
}

// PastDays lists the local calendar dates from now back to n-1 days ago.
func PastDays(now time.Time, n int) []string {
    now = now.In(time.Local)
    out := make([]string, 0, n)
    for i := 0; i < n; i++ {
        out = append(out, now.AddDate(0, 0, -i).Format(DateLayout))
    }
    return out
}

// rowDate keeps the date part of "2006-01-02 15:04" or RFC3339 stamps.
func rowDate(date string) string {
    if i := strings.IndexAny(date, " T"); i >= 0 { return date[:i] }
    return date
}

// IsRecurringToday reports whether a recurring task is due today: nothing
// titled like its body was logged inside its window. In-progress counter
// tasks are always due.
func IsRecurringToday(t tasks.Task, rows []history.Row, now time.Time) bool {
    if t.Every == "" { return false }
    days, ok := AmountOfPastDays(t.Every)
    if !ok || days == 0 { return false }

    if t.Counter != nil && t.Status == tasks.StatusDoing && !t.Counter.Full() {
        return true
    }

    window := make(map[string]struct{}, days)
    for _, d := range PastDays(now, days) { window[d] = struct{}{} }
    for _, r := range rows {
        if _, in := window[rowDate(r.Date)]; !in { continue }
        if r.Title == t.Body { return false }
    }
    return true
}
