package tui

import (
    "context"
    "log"
    "time"

    tea "github.com/charmbracelet/bubbletea"

    "grind-task-man/internal/filter"
    "grind-task-man/internal/history"
    "grind-task-man/internal/report"
    "grind-task-man/internal/tasks"
    "grind-task-man/internal/vault"
    "grind-task-man/internal/zipper"
)

type tasksLoadedMsg struct {
    tasks []tasks.Task
    rows  []history.Row
}

type historyLoadedMsg struct {
    md string
}

type taskWrittenMsg struct {
    before tasks.Task
    after  tasks.Task
    reward int
}

type taskAddedMsg struct{ note string }

type noteChangedMsg struct{ change vault.Change }

type exportDoneMsg struct {
    notes   int
    zipPath string
    err     error
}

type dumpDoneMsg struct{ filename string }

type errMsg struct{ error }

func (e errMsg) Error() string { return e.error.Error() }

func loadTasksCmd(o Options) tea.Cmd {
    return func() tea.Msg {
        ctx := &tasks.Context{Settings: o.Settings}
        if o.Daily != nil { ctx.App = o.Daily }
        list, err := o.Cache.Load(o.Config.VaultDir, o.Middlewares, ctx)
        if err != nil { return errMsg{err} }
        var rows []history.Row
        if o.History != nil {
            rows, err = o.History.List(context.Background())
            if err != nil { log.Printf("warning: history: %v", err) }
        }
        if o.Config.Debug { log.Printf("[tui] %d tasks, %d history rows", len(list), len(rows)) }
        return tasksLoadedMsg{tasks: list, rows: rows}
    }
}

func loadHistoryCmd(o Options) tea.Cmd {
    return func() tea.Msg {
        if o.History == nil { return historyLoadedMsg{md: "# Rewards\n\nNo history database configured.\n"} }
        ctx := context.Background()
        total, err := o.History.Total(ctx)
        if err != nil { return errMsg{err} }
        days, err := o.History.Daily(ctx)
        if err != nil { return errMsg{err} }
        rows, err := o.History.List(ctx)
        if err != nil { return errMsg{err} }
        now := time.Now
        if o.Now != nil { now = o.Now }
        today, err := o.History.Since(ctx, now().Format(filter.DateLayout))
        if err != nil { return errMsg{err} }
        return historyLoadedMsg{md: renderHistoryMarkdown(total, today, days, rows)}
    }
}

// waitForChangeCmd blocks until the watcher reports a note change.
func waitForChangeCmd(w *vault.Watcher) tea.Cmd {
    if w == nil { return nil }
    return func() tea.Msg {
        ch, ok := <-w.Events()
        if !ok { return nil }
        return noteChangedMsg{change: ch}
    }
}

func writeTaskCmd(o Options, before, after tasks.Task, deltas []tasks.RewardDelta) tea.Cmd {
    return func() tea.Msg {
        line := tasks.RenderLine(after, o.Middlewares, o.Settings)
        if err := vault.WriteLine(o.Config.VaultDir, before, line); err != nil { return errMsg{err} }
        o.Cache.Invalidate(before.Path)
        reward := 0
        if o.History != nil && len(deltas) > 0 {
            ds := make([]history.Delta, 0, len(deltas))
            for _, d := range deltas {
                ds = append(ds, history.Delta{Title: d.Title, Change: d.Change})
                reward += d.Change
            }
            if err := o.History.AddDeltas(context.Background(), ds, time.Now()); err != nil { return errMsg{err} }
        }
        after.LineContent = line
        return taskWrittenMsg{before: before, after: after, reward: reward}
    }
}

func addTaskCmd(o Options, note, text string) tea.Cmd {
    if !vault.IsNote(note) { note += ".md" }
    return func() tea.Msg {
        if err := vault.AppendTask(o.Config.VaultDir, note, "- [ ] "+text); err != nil { return errMsg{err} }
        o.Cache.Invalidate(note)
        return taskAddedMsg{note: note}
    }
}

func exportNotesCmd(o Options, sel []tasks.Task, zipPath string) tea.Cmd {
    return func() tea.Msg {
        notes := map[string]bool{}
        for _, t := range sel { notes[t.Path] = true }
        err := zipper.ExportNotes(o.Config.VaultDir, sel, zipPath)
        return exportDoneMsg{notes: len(notes), zipPath: zipPath, err: err}
    }
}

func dumpCmd(groups []tasks.Group, o Options, filename string) tea.Cmd {
    return func() tea.Msg {
        if err := report.DumpMarkdown(groups, o.Settings, filename); err != nil { return errMsg{err} }
        return dumpDoneMsg{filename: filename}
    }
}
