package history

import (
    "context"
    "fmt"
)

// DayStats aggregates the rows of one calendar day.
type DayStats struct {
    Date    string
    Earned  int
    Spent   int
    Entries int
}

func (d DayStats) Net() int { return d.Earned - d.Spent }

// Daily returns per-day aggregates, newest day first.
func (s *Store) Daily(ctx context.Context) ([]DayStats, error) {
    rows, err := s.db.QueryContext(ctx, `
    SELECT substr(date, 1, 10) AS day,
           COALESCE(SUM(CASE WHEN change > 0 THEN change ELSE 0 END), 0),
           COALESCE(SUM(CASE WHEN change < 0 THEN -change ELSE 0 END), 0),
           COUNT(*)
    FROM history
    GROUP BY day
    ORDER BY day DESC`)
    if err != nil { return nil, fmt.Errorf("daily stats: %w", err) }
    defer rows.Close()
    var out []DayStats
    for rows.Next() {
        var d DayStats
        if err := rows.Scan(&d.Date, &d.Earned, &d.Spent, &d.Entries); err != nil {
            return nil, fmt.Errorf("scan daily stats: %w", err)
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// Summarize computes the same aggregates over rows already in memory.
func Summarize(rows []Row) (total int, perTitle map[string]int) {
    perTitle = map[string]int{}
    for _, r := range rows {
        total += r.Change
        perTitle[r.Title] += r.Change
    }
    return total, perTitle
}
