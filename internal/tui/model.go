package tui

import (
    "errors"
    "fmt"
    "os/exec"
    "path/filepath"
    "runtime"
    "strings"
    "time"

    "github.com/charmbracelet/bubbles/help"
    "github.com/charmbracelet/bubbles/key"
    "github.com/charmbracelet/bubbles/list"
    "github.com/charmbracelet/bubbles/spinner"
    "github.com/charmbracelet/bubbles/textinput"
    "github.com/charmbracelet/bubbles/viewport"
    tea "github.com/charmbracelet/bubbletea"
    "github.com/charmbracelet/lipgloss"

    "grind-task-man/internal/conditions"
    "grind-task-man/internal/config"
    "grind-task-man/internal/filter"
    "grind-task-man/internal/history"
    "grind-task-man/internal/tasks"
    "grind-task-man/internal/vault"
)

// Options wires the panel to its data sources. Cache and Middlewares are
// required, the rest may be left nil.
type Options struct {
    Config      config.Config
    Settings    *config.Settings
    Filters     filter.Filters
    Sort        tasks.SortType
    Order       tasks.SortOrder
    Middlewares []tasks.Middleware
    Cache       *vault.Cache
    Daily       *vault.Daily
    Watcher     *vault.Watcher
    History     *history.Store
    Conditions  *conditions.Env
    Active      filter.ActiveFile
    Now         func() time.Time
}

type mode int

const (
    modeList mode = iota
    modeDetail
    modeHistory
    modeAdd
)

type model struct {
    opts      Options
    filters   filter.Filters
    sortBy    tasks.SortType
    order     tasks.SortOrder
    list      list.Model
    help      help.Model
    vp        viewport.Model
    spin      spinner.Model
    input     textinput.Model
    width     int
    height    int
    statusMsg string
    topMsg    string

    mode     mode
    showHelp bool
    loading  bool
    all      []tasks.Task
    rows     []history.Row
    groups   []tasks.Group
    detail   *tasks.Task
    pendingG bool
    // viewer search
    searchMode  bool
    searchQuery string
    rendered    string
    entries     []int
    selected    map[string]bool
}

type item struct {
    t        tasks.Task
    group    tasks.GroupMetadata
    selected bool
    title    string
    desc     string
}

func (i item) Title() string       { if i.selected { return selectedPrefix() + i.title }; return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string {
    return i.t.Body + " " + i.t.Path + " " + i.group.Title + " " + string(i.t.Status)
}

type keymap struct {
    open      key.Binding
    back      key.Binding
    refresh   key.Binding
    cycle     key.Binding
    done      key.Binding
    deny      key.Binding
    delay     key.Binding
    inc       key.Binding
    dec       key.Binding
    recur     key.Binding
    status    key.Binding
    cond      key.Binding
    sort      key.Binding
    order     key.Binding
    add       key.Binding
    history   key.Binding
    export    key.Binding
    dump      key.Binding
    toggleSel key.Binding
    clearSel  key.Binding
    openNote  key.Binding
    quit      key.Binding
}

func newKeymap() keymap {
    return keymap{
        open:      key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter/l", "open")),
        back:      key.NewBinding(key.WithKeys("h", "esc"), key.WithHelp("h", "back")),
        refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
        cycle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "next status")),
        done:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "done")),
        deny:      key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "deny")),
        delay:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "delay")),
        inc:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "count up")),
        dec:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "count down")),
        recur:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "due today")),
        status:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "status filter")),
        cond:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "conditions")),
        sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort key")),
        order:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort order")),
        add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
        history:   key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "rewards")),
        export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export notes")),
        dump:      key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "markdown dump")),
        toggleSel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "toggle select")),
        clearSel:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear selection")),
        openNote:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open note")),
        quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
    }
}

var keys = newKeymap()

func New(o Options) model {
    if o.Settings == nil { o.Settings = o.Config.Settings() }
    if o.Cache == nil { o.Cache = vault.NewCache() }
    if o.Sort == "" { o.Sort = tasks.SortNone }
    if o.Order == "" { o.Order = tasks.SortAsc }
    if o.Filters.Status == "" { o.Filters.Status = filter.StatusAll }

    lm := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
    lm.SetShowStatusBar(false)
    lm.SetFilteringEnabled(true)
    lm.AdditionalShortHelpKeys = func() []key.Binding {
        return []key.Binding{keys.open, keys.cycle, keys.done, keys.inc, keys.dec, keys.recur, keys.status, keys.sort, keys.add, keys.history, keys.quit}
    }
    lm.AdditionalFullHelpKeys = func() []key.Binding {
        return []key.Binding{keys.open, keys.refresh, keys.cycle, keys.done, keys.deny, keys.delay, keys.inc, keys.dec, keys.recur, keys.status, keys.cond, keys.sort, keys.order, keys.add, keys.history, keys.export, keys.dump, keys.toggleSel, keys.clearSel, keys.openNote, keys.quit}
    }
    hs := lm.Styles.HelpStyle
    hs = hs.Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"}).Bold(true)
    lm.Styles.HelpStyle = hs
    sp := spinner.New()
    sp.Spinner = spinner.MiniDot
    ti := textinput.New()
    ti.CharLimit = 200
    m := model{
        opts: o, filters: o.Filters, sortBy: o.Sort, order: o.Order,
        list: lm, help: help.New(), spin: sp, input: ti, loading: true,
        selected: map[string]bool{},
    }
    m.setTitle()
    return m
}

func (m model) Init() tea.Cmd {
    return tea.Batch(loadTasksCmd(m.opts), m.spin.Tick, waitForChangeCmd(m.opts.Watcher))
}

func (m model) now() time.Time {
    if m.opts.Now != nil { return m.opts.Now() }
    return time.Now()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
    switch msg := msg.(type) {
    case tea.WindowSizeMsg:
        m.width, m.height = msg.Width, msg.Height
        m.list.SetSize(m.width, m.height-2)
        m.vp.Width, m.vp.Height = m.width, max(3, m.height-4)
        return m, nil
    case tasksLoadedMsg:
        m.all, m.rows = msg.tasks, msg.rows
        m.loading = false
        m.rebuild()
        if len(m.all) == 0 {
            m.statusMsg = "No tasks found"
        } else {
            m.statusMsg = fmt.Sprintf("%d tasks, %d shown", len(m.all), len(m.list.Items()))
        }
        return m, nil
    case taskWrittenMsg:
        key := msg.before.Key()
        for i := range m.all {
            if m.all[i].Key() == key { m.all[i] = msg.after }
        }
        m.rebuild()
        m.statusMsg = fmt.Sprintf("%s %s", statusBadge(msg.after.Status), msg.after.Body)
        if msg.reward != 0 { m.statusMsg += fmt.Sprintf("  %+d", msg.reward) }
        if m.mode == modeDetail && m.detail != nil && m.detail.Key() == key {
            t := msg.after
            m.detail = &t
            m.setViewport(renderDetailMarkdown(t, m.opts.Settings, m.rows))
        }
        return m, nil
    case taskAddedMsg:
        m.statusMsg = "added to " + msg.note
        return m, loadTasksCmd(m.opts)
    case noteChangedMsg:
        return m, tea.Batch(loadTasksCmd(m.opts), waitForChangeCmd(m.opts.Watcher))
    case historyLoadedMsg:
        m.mode = modeHistory
        m.setViewport(msg.md)
        return m, nil
    case exportDoneMsg:
        if msg.err != nil {
            m.statusMsg = "export failed: " + msg.err.Error()
            return m, nil
        }
        if ap, _ := filepath.Abs(msg.zipPath); ap != "" { msg.zipPath = ap }
        m.statusMsg = fmt.Sprintf("exported %d notes to %s", msg.notes, msg.zipPath)
        return m, nil
    case dumpDoneMsg:
        m.statusMsg = "wrote " + msg.filename
        return m, nil
    case spinner.TickMsg:
        var cmd tea.Cmd
        m.spin, cmd = m.spin.Update(msg)
        return m, cmd
    case errMsg:
        if errors.Is(msg.error, vault.ErrStale) {
            m.statusMsg = "note changed on disk, reloading"
            return m, loadTasksCmd(m.opts)
        }
        m.loading = false
        m.statusMsg = "error: " + msg.Error()
        return m, nil
    case tea.KeyMsg:
        switch m.mode {
        case modeDetail, modeHistory:
            return m.updateViewer(msg)
        case modeAdd:
            return m.updateAdd(msg)
        }
        if m.list.FilterState() == list.Filtering { break }
        if mm, cmd, ok := m.updateList(msg); ok { return mm, cmd }
    }

    // Delegate other events to list
    var cmd tea.Cmd
    m.list, cmd = m.list.Update(msg)
    return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
    cur, haveCur := m.current()
    switch {
    case key.Matches(msg, keys.quit):
        return m, tea.Quit, true
    case key.Matches(msg, keys.open):
        if haveCur {
            m.detail = &cur
            m.mode = modeDetail
            m.setViewport(renderDetailMarkdown(cur, m.opts.Settings, m.rows))
        }
        return m, nil, true
    case key.Matches(msg, keys.refresh):
        m.loading = true
        m.opts.Cache.Reset()
        return m, tea.Batch(loadTasksCmd(m.opts), m.spin.Tick), true
    case key.Matches(msg, keys.recur):
        m.filters.Recur = !m.filters.Recur
        m.rebuild()
        return m, nil, true
    case key.Matches(msg, keys.status):
        m.filters.Status = nextStatusFilter(m.filters.Status)
        m.rebuild()
        return m, nil, true
    case key.Matches(msg, keys.cond):
        m.filters.ByCondition = !m.filters.ByCondition
        m.rebuild()
        return m, nil, true
    case key.Matches(msg, keys.sort):
        m.sortBy = nextSort(m.sortBy)
        m.rebuild()
        return m, nil, true
    case key.Matches(msg, keys.order):
        if m.order == tasks.SortAsc { m.order = tasks.SortDesc } else { m.order = tasks.SortAsc }
        m.rebuild()
        return m, nil, true
    case key.Matches(msg, keys.add):
        m.mode = modeAdd
        m.input.Placeholder = "new task"
        m.input.SetValue("")
        return m, m.input.Focus(), true
    case key.Matches(msg, keys.history):
        return m, loadHistoryCmd(m.opts), true
    case key.Matches(msg, keys.export):
        sel := m.selectedTasks()
        if len(sel) == 0 && haveCur { sel = []tasks.Task{cur} }
        if len(sel) == 0 {
            m.statusMsg = "nothing to export"
            return m, nil, true
        }
        zipPath := filepath.Join(m.exportDir(), fmt.Sprintf("grind-notes-%s.zip", m.now().Format("20060102-150405")))
        return m, exportNotesCmd(m.opts, sel, zipPath), true
    case key.Matches(msg, keys.dump):
        name := filepath.Join(m.exportDir(), fmt.Sprintf("grind-tasks-%s.md", m.now().Format("20060102-150405")))
        return m, dumpCmd(m.groups, m.opts, name), true
    case key.Matches(msg, keys.toggleSel):
        if haveCur {
            k := cur.Key()
            m.selected[k] = !m.selected[k]
            if !m.selected[k] { delete(m.selected, k) }
            m.rebuild()
        }
        return m, nil, true
    case key.Matches(msg, keys.clearSel):
        m.selected = map[string]bool{}
        m.rebuild()
        m.statusMsg = "selection cleared"
        return m, nil, true
    case key.Matches(msg, keys.openNote):
        if haveCur {
            _ = openInExplorer(filepath.Join(m.opts.Config.VaultDir, filepath.FromSlash(cur.Path)))
            m.statusMsg = "opened " + cur.Path
        }
        return m, nil, true
    case msg.String() == "?":
        m.showHelp = !m.showHelp
        m.list.SetShowHelp(m.showHelp)
        return m, nil, true
    }
    if haveCur {
        if cmd, ok := m.editKey(msg, cur); ok { return m, cmd, true }
    }
    return m, nil, false
}

// editKey maps the status and counter keys to a write-back of t.
func (m *model) editKey(msg tea.KeyMsg, t tasks.Task) (tea.Cmd, bool) {
    switch {
    case key.Matches(msg, keys.cycle):
        return m.setStatus(t, nextStatus(t.Status)), true
    case key.Matches(msg, keys.done):
        if t.Status == tasks.StatusDone { return m.setStatus(t, tasks.StatusTodo), true }
        return m.setStatus(t, tasks.StatusDone), true
    case key.Matches(msg, keys.deny):
        return m.setStatus(t, tasks.StatusDenied), true
    case key.Matches(msg, keys.delay):
        return m.setStatus(t, tasks.StatusDelay), true
    case key.Matches(msg, keys.inc):
        return m.addCounter(t, 1), true
    case key.Matches(msg, keys.dec):
        return m.addCounter(t, -1), true
    }
    return nil, false
}

func (m *model) setStatus(t tasks.Task, st tasks.Status) tea.Cmd {
    if t.Status == st { return nil }
    after, deltas := tasks.SetStatus(t, st, m.opts.Settings, m.now())
    return writeTaskCmd(m.opts, t, after, deltas)
}

func (m *model) addCounter(t tasks.Task, delta int) tea.Cmd {
    after, deltas, err := tasks.AddCounter(t, delta, m.opts.Settings, m.now())
    if err != nil {
        m.statusMsg = err.Error()
        return nil
    }
    return writeTaskCmd(m.opts, t, after, deltas)
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    switch msg.Type {
    case tea.KeyEnter:
        text := strings.TrimSpace(m.input.Value())
        m.mode = modeList
        m.input.Blur()
        if text == "" { return m, nil }
        return m, addTaskCmd(m.opts, m.addTarget(), text)
    case tea.KeyEsc, tea.KeyCtrlC:
        m.mode = modeList
        m.input.Blur()
        return m, nil
    }
    var cmd tea.Cmd
    m.input, cmd = m.input.Update(msg)
    return m, cmd
}

func (m model) updateViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    if m.searchMode {
        switch msg.Type {
        case tea.KeyEnter:
            m.searchQuery = m.input.Value()
            m.searchMode = false
            m.input.Blur()
            m.applySearch()
            return m, nil
        case tea.KeyEsc, tea.KeyCtrlC:
            m.searchMode = false
            m.input.Blur()
            return m, nil
        }
        var cmd tea.Cmd
        m.input, cmd = m.input.Update(msg)
        return m, cmd
    }
    switch msg.String() {
    case "h", "q", "esc":
        m.mode = modeList
        m.detail = nil
        m.pendingG = false
        m.topMsg = ""
        return m, nil
    case "j", "down":
        m.vp.LineDown(1); return m, nil
    case "k", "up":
        m.vp.LineUp(1); return m, nil
    case "pgdown", "ctrl+f":
        m.vp.ViewDown(); return m, nil
    case "pgup", "ctrl+b":
        m.vp.ViewUp(); return m, nil
    case "ctrl+d":
        m.vp.HalfViewDown(); return m, nil
    case "ctrl+u":
        m.vp.HalfViewUp(); return m, nil
    case "g":
        if m.pendingG { m.vp.GotoTop(); m.pendingG = false } else { m.pendingG = true }
        return m, nil
    case "G":
        m.vp.GotoBottom(); return m, nil
    case "J":
        if ln, ok := nextLine(m.entries, m.vp.YOffset); ok { m.vp.SetYOffset(ln) }
        return m, nil
    case "K":
        if ln, ok := prevLine(m.entries, m.vp.YOffset); ok { m.vp.SetYOffset(ln) }
        return m, nil
    case "/":
        m.searchMode = true
        m.input.Placeholder = "search..."
        m.input.SetValue("")
        return m, m.input.Focus()
    case "n":
        if ln, ok := nextLine(matchLines(m.rendered, m.searchQuery), m.vp.YOffset); ok { m.vp.SetYOffset(ln) }
        return m, nil
    case "N":
        if ln, ok := prevLine(matchLines(m.rendered, m.searchQuery), m.vp.YOffset); ok { m.vp.SetYOffset(ln) }
        return m, nil
    }
    m.pendingG = false
    if m.mode == modeDetail && m.detail != nil {
        if key.Matches(msg, keys.openNote) {
            _ = openInExplorer(filepath.Join(m.opts.Config.VaultDir, filepath.FromSlash(m.detail.Path)))
            m.topMsg = "Opened " + m.detail.Path
            return m, nil
        }
        if cmd, ok := m.editKey(msg, *m.detail); ok { return m, cmd }
    }
    return m, nil
}

func (m model) View() string {
    if m.mode == modeDetail || m.mode == modeHistory {
        header := m.help.ShortHelpView([]key.Binding{keys.back, keys.cycle, keys.done, keys.inc, keys.dec, keys.openNote})
        if m.mode == modeHistory { header = m.help.ShortHelpView([]key.Binding{keys.back}) + "  J/K entries  / search" }
        if m.topMsg != "" { header += "\n" + m.topMsg }
        if m.statusMsg != "" { header += "\n" + m.statusMsg }
        if m.searchMode { header += "\n/ " + m.input.View() }
        return header + "\n\n" + m.vp.View()
    }
    if m.loading {
        return fmt.Sprintf("%s Loading tasks...", m.spin.View())
    }
    v := m.list.View()
    if m.mode == modeAdd { v += "\nadd to " + m.addTarget() + ": " + m.input.View() }
    return v + footer(m.statusMsg)
}

func (m *model) setViewport(md string) {
    m.rendered = renderGlamour(md, m.width)
    m.vp = viewport.New(m.width, max(3, m.height-4))
    m.vp.SetContent(m.rendered)
    m.entries = entryLines(m.rendered)
    m.searchQuery = ""
}

func (m *model) applySearch() {
    if m.searchQuery == "" { m.vp.SetContent(m.rendered); return }
    style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
    m.vp.SetContent(highlightAll(m.rendered, m.searchQuery, func(s string) string { return style.Render(s) }))
    if lines := matchLines(m.rendered, m.searchQuery); len(lines) > 0 { m.vp.SetYOffset(lines[0]) }
}

// visible applies filters and sort to the loaded tasks.
func (m model) visible() []tasks.Task {
    env := filter.Env{Active: m.opts.Active, History: m.rows, Now: m.now()}
    if m.opts.Conditions != nil { env.Conditions = m.opts.Conditions }
    return filter.Ranked(m.all, m.filters, env, m.sortBy, m.order, m.opts.Settings)
}

func (m *model) rebuild() {
    m.groups = tasks.GroupBy(m.visible(), m.opts.Config.Groups)
    idx := m.list.Index()
    items := make([]list.Item, 0, len(m.all))
    for _, g := range m.groups {
        for _, t := range g.Tasks {
            items = append(items, m.newItem(t, g.Metadata))
        }
    }
    m.list.SetItems(items)
    if idx >= len(items) { idx = len(items) - 1 }
    if idx >= 0 { m.list.Select(idx) }
    m.setTitle()
}

func (m model) newItem(t tasks.Task, g tasks.GroupMetadata) item {
    title := statusBadge(t.Status) + " " + t.Body + counterBadge(t)
    if r := rewardBadge(t, m.opts.Settings); r != "" { title += " " + r }
    parts := []string{}
    if b := groupBadge(g); b != "" { parts = append(parts, b) }
    parts = append(parts, fmt.Sprintf("%s:%d", t.Path, t.LineNumber+1))
    if t.Every != "" { parts = append(parts, "every "+t.Every) }
    if t.CompletedAt != "" { parts = append(parts, "✅ "+t.CompletedAt) }
    return item{t: t, group: g, selected: m.selected[t.Key()], title: title, desc: strings.Join(parts, " • ")}
}

func (m model) current() (tasks.Task, bool) {
    if it, ok := m.list.SelectedItem().(item); ok { return it.t, true }
    return tasks.Task{}, false
}

func (m model) selectedTasks() []tasks.Task {
    out := []tasks.Task{}
    for _, li := range m.list.Items() {
        it := li.(item)
        if it.selected { out = append(out, it.t) }
    }
    return out
}

func (m *model) setTitle() {
    base := fmt.Sprintf("Grind Tasks  [sort:%s %s]", m.sortBy, m.order)
    if m.filters.Status != filter.StatusAll { base += "  [status:" + m.filters.Status + "]" }
    if m.filters.Recur { base += "  [today:" + string(m.filters.RecurMode) + "]" }
    if m.filters.ByCondition { base += "  [if]" }
    if m.filters.Note != "" { base += "  [note:" + m.filters.Note + "]" }
    m.list.Title = base
}

// addTarget is the note new tasks go to: the note filter when set, else
// today's daily note.
func (m model) addTarget() string {
    if m.filters.Note != "" { return m.filters.Note }
    if m.opts.Daily != nil { return m.opts.Daily.NotePath() }
    return "Inbox.md"
}

func (m model) exportDir() string {
    if m.opts.Config.ExportDir != "" { return m.opts.Config.ExportDir }
    return "."
}

var cycleOrder = []tasks.Status{tasks.StatusTodo, tasks.StatusDoing, tasks.StatusDone}

func nextStatus(st tasks.Status) tasks.Status {
    for i, s := range cycleOrder {
        if s == st { return cycleOrder[(i+1)%len(cycleOrder)] }
    }
    return tasks.StatusTodo
}

func nextStatusFilter(cur string) string {
    opts := []string{filter.StatusAll}
    for _, s := range tasks.Statuses { opts = append(opts, string(s)) }
    for i, o := range opts {
        if o == cur { return opts[(i+1)%len(opts)] }
    }
    return filter.StatusAll
}

func nextSort(cur tasks.SortType) tasks.SortType {
    for i, s := range tasks.SortTypes {
        if s == cur { return tasks.SortTypes[(i+1)%len(tasks.SortTypes)] }
    }
    return tasks.SortNone
}

func openInExplorer(path string) error {
    if path == "" { return nil }
    switch runtime.GOOS {
    case "darwin":
        return exec.Command("open", path).Start()
    case "linux":
        return exec.Command("xdg-open", path).Start()
    case "windows":
        return exec.Command("explorer", path).Start()
    default:
        return nil
    }
}
