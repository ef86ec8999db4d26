package tui

import (
    "fmt"

    "github.com/charmbracelet/lipgloss"

    "grind-task-man/internal/config"
    "grind-task-man/internal/tasks"
)

var statusColors = map[tasks.Status]string{
    tasks.StatusTodo:   "7",
    tasks.StatusDoing:  "12",
    tasks.StatusDone:   "10",
    tasks.StatusDenied: "9",
    tasks.StatusDelay:  "11",
}

var statusGlyphs = map[tasks.Status]string{
    tasks.StatusTodo:   "[ ]",
    tasks.StatusDoing:  "[/]",
    tasks.StatusDone:   "[x]",
    tasks.StatusDenied: "[-]",
    tasks.StatusDelay:  "[>]",
}

func statusBadge(st tasks.Status) string {
    g, ok := statusGlyphs[st]
    if !ok { g = "[?]" }
    return lipgloss.NewStyle().Foreground(lipgloss.Color(statusColors[st])).Bold(st == tasks.StatusDoing).Render(g)
}

func counterBadge(t tasks.Task) string {
    if t.Counter == nil || t.Counter.Goal == nil { return "" }
    c := "12"
    if t.Counter.Full() { c = "10" }
    return " " + lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(fmt.Sprintf("%d/%d", t.Counter.Current, *t.Counter.Goal))
}

func groupBadge(meta tasks.GroupMetadata) string {
    if meta.ID == "" { return "" }
    st := lipgloss.NewStyle().Bold(true)
    if meta.Color != "" { st = st.Foreground(lipgloss.Color(meta.Color)) }
    return st.Render(meta.Title)
}

func rewardBadge(t tasks.Task, s *config.Settings) string {
    p := s.Price(t.Difficulty)
    if t.Difficulty == "" || p == 0 { return "" }
    return lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(fmt.Sprintf("+%d", p))
}

func selectedPrefix() string {
    return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("● ")
}

func footer(msg string) string {
    if msg == "" { return "" }
    return "\n" + msg + "\n"
}
