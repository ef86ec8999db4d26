package tui

import (
    "fmt"
    "sort"
    "strings"

    "github.com/charmbracelet/glamour"

    "grind-task-man/internal/config"
    "grind-task-man/internal/history"
    "grind-task-man/internal/report"
    "grind-task-man/internal/tasks"
)

const recentHistory = 30

// renderDetailMarkdown builds a markdown string that will be rendered for the viewport.
func renderDetailMarkdown(t tasks.Task, s *config.Settings, rows []history.Row) string {
    b := &strings.Builder{}
    b.WriteString(report.Detail(t, s))

    var own []history.Row
    for _, r := range rows {
        if r.Title == t.Body { own = append(own, r) }
    }
    if len(own) > 0 {
        total, _ := history.Summarize(own)
        fmt.Fprintf(b, "\n## History (%+d)\n\n", total)
        for i := len(own) - 1; i >= 0; i-- {
            fmt.Fprintf(b, "### %s  %+d\n\n", own[i].Date, own[i].Change)
        }
    }

    fmt.Fprintf(b, "\n(h) back  (space) status  (+/-) counter  (o) open note  (/) search  (q) close\n")
    return b.String()
}

func renderHistoryMarkdown(total int, today []history.Row, days []history.DayStats, rows []history.Row) string {
    b := &strings.Builder{}
    fmt.Fprintf(b, "# Rewards\n\nBalance: **%d**\n\n", total)
    if len(today) > 0 {
        earned, perTitle := history.Summarize(today)
        fmt.Fprintf(b, "## Today (%+d)\n\n", earned)
        titles := make([]string, 0, len(perTitle))
        for title := range perTitle { titles = append(titles, title) }
        sort.Strings(titles)
        for _, title := range titles {
            short, _, _ := report.CleanOneLine(title, 80)
            fmt.Fprintf(b, "- %s %+d\n", short, perTitle[title])
        }
        b.WriteString("\n")
    }
    if len(days) > 0 {
        b.WriteString("## Days\n\n| Date | Earned | Spent | Net | Entries |\n|---|---|---|---|---|\n")
        for _, d := range days {
            fmt.Fprintf(b, "| %s | %d | %d | %+d | %d |\n", d.Date, d.Earned, d.Spent, d.Net(), d.Entries)
        }
        b.WriteString("\n")
    }
    if len(rows) > 0 {
        b.WriteString("## Recent\n\n")
        n := 0
        for i := len(rows) - 1; i >= 0 && n < recentHistory; i-- {
            r := rows[i]
            title, _, _ := report.CleanOneLine(r.Title, 80)
            fmt.Fprintf(b, "### %s  %+d\n\n%s\n\n", r.Date, r.Change, title)
            n++
        }
    }
    b.WriteString("\n(h) back  (J/K) next/prev entry  (/) search  (q) close\n")
    return b.String()
}

func renderGlamour(md string, width int) string {
    opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
    if width > 0 { opts = append(opts, glamour.WithWordWrap(width)) }
    r, err := glamour.NewTermRenderer(opts...)
    if err != nil { return md }
    out, err := r.Render(md)
    if err != nil { return md }
    return out
}

// entryLines returns the rendered line numbers of ### headings, used for
// J/K jumps. Glamour keeps the heading text, so the date prefix is enough.
func entryLines(rendered string) []int {
    var out []int
    for i, ln := range strings.Split(rendered, "\n") {
        ln = strings.TrimSpace(stripANSI(ln))
        if strings.HasPrefix(ln, "### ") || (len(ln) >= 10 && ln[4] == '-' && ln[7] == '-' && strings.Contains(ln, "  ")) {
            out = append(out, i)
        }
    }
    return out
}

func stripANSI(s string) string {
    var b strings.Builder
    esc := false
    for _, r := range s {
        switch {
        case r == '\x1b':
            esc = true
        case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
            esc = false
        case !esc:
            b.WriteRune(r)
        }
    }
    return b.String()
}

func highlightAll(s, q string, wrap func(string) string) string {
    if q == "" { return s }
    // naive replacement, case-insensitive
    lowerS, lowerQ := strings.ToLower(s), strings.ToLower(q)
    if len(lowerS) != len(s) { return s }
    var out strings.Builder
    i := 0
    for i < len(s) {
        idx := strings.Index(lowerS[i:], lowerQ)
        if idx < 0 { out.WriteString(s[i:]); break }
        idx = i + idx
        out.WriteString(s[i:idx])
        out.WriteString(wrap(s[idx:idx+len(q)]))
        i = idx + len(q)
    }
    return out.String()
}

func matchLines(s, q string) []int {
    if q == "" { return nil }
    lowerQ := strings.ToLower(q)
    var out []int
    for i, ln := range strings.Split(s, "\n") {
        if strings.Contains(strings.ToLower(stripANSI(ln)), lowerQ) { out = append(out, i) }
    }
    return out
}

func nextLine(lines []int, cur int) (int, bool) {
    if len(lines) == 0 { return 0, false }
    for _, ln := range lines { if ln > cur { return ln, true } }
    return lines[0], true
}

func prevLine(lines []int, cur int) (int, bool) {
    if len(lines) == 0 { return 0, false }
    for i := len(lines)-1; i >= 0; i-- { if lines[i] < cur { return lines[i], true } }
    return lines[len(lines)-1], true
}
