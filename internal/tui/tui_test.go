package tui

import (
    "context"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    tea "github.com/charmbracelet/bubbletea"

    "grind-task-man/internal/config"
    "grind-task-man/internal/filter"
    "grind-task-man/internal/history"
    "grind-task-man/internal/middleware"
    "grind-task-man/internal/tasks"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)

const testNote = "- [ ] one #diff/easy\n- [x] two\n- [ ] three #count/1/3\n"

func newTestModel(t *testing.T, store *history.Store) (model, string) {
    t.Helper()
    root := t.TempDir()
    if err := os.WriteFile(filepath.Join(root, "a.md"), []byte(testNote), 0o644); err != nil { t.Fatal(err) }
    cfg := config.Default()
    cfg.VaultDir = root
    m := New(Options{Config: cfg, Middlewares: middleware.Default(), History: store, Now: func() time.Time { return testNow }})
    next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
    m = next.(model)
    next, _ = m.Update(loadTasksCmd(m.opts)())
    return next.(model), root
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m model, msg tea.KeyMsg) model {
    t.Helper()
    next, cmd := m.Update(msg)
    m = next.(model)
    if cmd == nil { return m }
    out := cmd()
    if _, ok := out.(taskWrittenMsg); !ok { t.Fatalf("expected a write, got %T %v", out, out) }
    next, _ = m.Update(out)
    return next.(model)
}

func readA(t *testing.T, root string) []string {
    t.Helper()
    b, err := os.ReadFile(filepath.Join(root, "a.md"))
    if err != nil { t.Fatal(err) }
    return strings.Split(string(b), "\n")
}

func TestLoadAndStatusFilter(t *testing.T) {
    m, _ := newTestModel(t, nil)
    if got := len(m.list.Items()); got != 3 { t.Fatalf("expected 3 items, got %d", got) }

    next, _ := m.Update(runes("t"))
    m = next.(model)
    if m.filters.Status != string(tasks.StatusTodo) { t.Fatalf("expected todo filter, got %q", m.filters.Status) }
    if got := len(m.list.Items()); got != 2 { t.Fatalf("expected 2 todo items, got %d", got) }
    if !strings.Contains(m.list.Title, "[status:todo]") { t.Fatalf("title misses filter: %q", m.list.Title) }
}

func TestCycleStatusWritesNote(t *testing.T) {
    m, root := newTestModel(t, nil)
    m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
    if got := readA(t, root)[0]; got != "- [/] one #diff/easy" { t.Fatalf("unexpected line %q", got) }
    if m.all[0].Status != tasks.StatusDoing || m.all[0].LineContent != "- [/] one #diff/easy" {
        t.Fatalf("model not updated: %+v", m.all[0])
    }
}

func TestCounterKeys(t *testing.T) {
    m, root := newTestModel(t, nil)
    m.list.Select(2)
    m = press(t, m, runes("+"))
    if got := readA(t, root)[2]; got != "- [/] three #count/2/3" { t.Fatalf("unexpected line %q", got) }
    m = press(t, m, runes("+"))
    if got := readA(t, root)[2]; got != "- [x] three ✅ 2026-10-19 #count/3/3" { t.Fatalf("unexpected line %q", got) }

    // a full counter cannot grow
    next, cmd := m.Update(runes("+"))
    if cmd != nil { t.Fatal("expected no write past the goal") }
    if !strings.Contains(next.(model).statusMsg, "out of range") { t.Fatalf("unexpected status %q", next.(model).statusMsg) }
}

func TestDoneRecordsReward(t *testing.T) {
    store, err := history.Open(filepath.Join(t.TempDir(), "h.db"))
    if err != nil { t.Fatal(err) }
    defer store.Close()
    m, root := newTestModel(t, store)

    m = press(t, m, runes("x"))
    if got := readA(t, root)[0]; got != "- [x] one ✅ 2026-10-19 #diff/easy" { t.Fatalf("unexpected line %q", got) }
    total, err := store.Total(context.Background())
    if err != nil { t.Fatal(err) }
    if total != 2 { t.Fatalf("expected reward 2, got %d", total) }

    m = press(t, m, runes("x"))
    total, _ = store.Total(context.Background())
    if total != 0 { t.Fatalf("expected reward taken back, got %d", total) }
    if got := readA(t, root)[0]; got != "- [ ] one #diff/easy" { t.Fatalf("unexpected line %q", got) }
}

func TestStaleWriteReloads(t *testing.T) {
    m, root := newTestModel(t, nil)
    if err := os.WriteFile(filepath.Join(root, "a.md"), []byte("- [ ] changed\n"+testNote), 0o644); err != nil { t.Fatal(err) }
    next, cmd := m.Update(runes("x"))
    m = next.(model)
    out := cmd()
    next, cmd = m.Update(out)
    if cmd == nil { t.Fatal("expected reload after stale write") }
    if !strings.Contains(next.(model).statusMsg, "changed on disk") { t.Fatalf("unexpected status %q", next.(model).statusMsg) }
}

func TestCycles(t *testing.T) {
    if nextStatus(tasks.StatusDone) != tasks.StatusTodo || nextStatus("") != tasks.StatusTodo {
        t.Fatal("unexpected status cycle")
    }
    if nextStatusFilter(string(tasks.StatusDelay)) != filter.StatusAll { t.Fatal("status filter must wrap to all") }
    if nextSort(tasks.SortCounter) != tasks.SortNone { t.Fatal("sort must wrap to none") }
}

func TestRenderHistoryMarkdown(t *testing.T) {
    md := renderHistoryMarkdown(7, []history.Row{{Title: "run", Change: 5}, {Title: "run", Change: 5}, {Title: "read", Change: -3}}, []history.DayStats{{Date: "2026-10-19", Earned: 9, Spent: 2, Entries: 3}},
        []history.Row{{Title: "run", Change: 5, Date: "2026-10-19 08:00"}})
    for _, want := range []string{"Balance: **7**", "## Today (+7)", "- read -3\n- run +10", "| 2026-10-19 | 9 | 2 | +7 | 3 |", "### 2026-10-19 08:00  +5"} {
        if !strings.Contains(md, want) { t.Fatalf("missing %q in:\n%s", want, md) }
    }
}
