package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"grind-task-man/internal/conditions"
	"grind-task-man/internal/config"
	"grind-task-man/internal/filter"
	"grind-task-man/internal/history"
	"grind-task-man/internal/middleware"
	"grind-task-man/internal/report"
	"grind-task-man/internal/tasks"
	"grind-task-man/internal/tui"
	"grind-task-man/internal/vault"
	"grind-task-man/internal/version"
	"grind-task-man/internal/zipper"
)

func main() {
    // Flags
    var (
        cfgPath       string
        vaultDir      string
        historyDB     string
        conditionsDir string
        search        string
        status        string
        tags          string
        onlyTags      bool
        note          string
        active        string
        recur         bool
        recurMode     string
        byCondition   bool
        limit         int
        sortBy        string
        order         string
        asJSON        bool
        dumpPath      string
        exportPath    string
        importPath    string
        addText       string
        debug         bool
        showVersion   bool
    )

    flag.StringVar(&cfgPath, "config", filepath.Join(config.UserHome(), ".config", "grind-task-man.json"), "config file path")
    flag.StringVar(&vaultDir, "vault", "", "vault directory (overrides config)")
    flag.StringVar(&historyDB, "history-db", "", "sqlite file of the reward history (overrides config)")
    flag.StringVar(&conditionsDir, "conditions-dir", "", "directory containing JS condition modules (overrides config)")
    flag.StringVar(&search, "search", "", "only tasks whose text contains this")
    flag.StringVar(&status, "status", filter.StatusAll, "status filter: all | todo | doing | done | denied | delay")
    flag.StringVar(&tags, "tags", "", "comma separated tags without #, e.g. work,home")
    flag.BoolVar(&onlyTags, "only-tags", false, "require all of -tags instead of any")
    flag.StringVar(&note, "note", "", "only tasks of this note (vault path without .md); also the target of -add")
    flag.StringVar(&active, "active", "", "vault path of the open note; shows only its tasks")
    flag.BoolVar(&recur, "recur", false, "only recurring tasks due today")
    flag.StringVar(&recurMode, "recur-mode", "", "how -recur meets the other filters: strict | override (overrides config)")
    flag.BoolVar(&byCondition, "by-condition", false, "hide tasks whose #if condition is not met")
    flag.IntVar(&limit, "limit", 0, "show at most this many tasks (0 = no limit)")
    flag.StringVar(&sortBy, "sort", string(tasks.SortNone), "sort key: none | status | difficulty | body | path | counter")
    flag.StringVar(&order, "order", string(tasks.SortAsc), "sort order: asc | desc")
    flag.BoolVar(&asJSON, "json", false, "print the filtered tasks as JSON and exit")
    flag.StringVar(&dumpPath, "dump", "", "write the filtered tasks as markdown to this file and exit")
    flag.StringVar(&exportPath, "export", "", "zip the notes of the filtered tasks to this file and exit")
    flag.StringVar(&importPath, "import", "", "extract an exported zip into the vault and exit")
    flag.StringVar(&addText, "add", "", "append a new task to -note (or today's daily note) and exit")
    flag.BoolVar(&debug, "debug", false, "print debug info (paths, counts)")
    flag.BoolVar(&showVersion, "version", false, "print version and exit")
    flag.Parse()

    if showVersion {
        fmt.Println(version.String())
        return
    }

    // Load config
    cfg := config.Default()
    if err := config.Load(cfgPath, &cfg); err != nil && !os.IsNotExist(err) {
        log.Printf("warning: failed to load config: %v", err)
    }
    // Merge overrides
    if vaultDir != "" {
        cfg.VaultDir = vaultDir
    }
    if historyDB != "" {
        cfg.HistoryDB = historyDB
    }
    if conditionsDir != "" {
        cfg.ConditionsDir = conditionsDir
    }
    if recurMode != "" {
        cfg.RecurMode = recurMode
    }
    if limit > 0 {
        cfg.Limit = limit
    }
    if debug {
        cfg.Debug = true
    }
    if _, ok := sortKey(sortBy); !ok {
        log.Fatalf("invalid -sort %q", sortBy)
    }
    if order != string(tasks.SortAsc) && order != string(tasks.SortDesc) {
        log.Fatalf("invalid -order %q", order)
    }
    if status != filter.StatusAll {
        if _, ok := tasks.ParseStatus(status); !ok {
            log.Fatalf("invalid -status %q", status)
        }
    }
    conditions.EnableDebug(cfg.Debug)
    if cfg.Debug {
        log.Printf("vault: %s", cfg.VaultDir)
        log.Printf("history: %s", cfg.HistoryDB)
        log.Printf("conditions: %s", cfg.ConditionsDir)
    }

    settings := cfg.Settings()
    daily := &vault.Daily{Root: cfg.VaultDir, Folder: cfg.DailyFolder, Format: cfg.DailyFormat, Debug: cfg.Debug}

    // Batch operations
    if importPath != "" {
        written, err := zipper.ImportNotes(importPath, cfg.VaultDir)
        if err != nil {
            log.Fatalf("import failed: %v", err)
        }
        fmt.Printf("imported %d notes from %s into %s\n", len(written), importPath, cfg.VaultDir)
        return
    }
    if addText != "" {
        target := note
        if target == "" {
            target = daily.NotePath()
        }
        if err := vault.AppendTask(cfg.VaultDir, target, "- [ ] "+addText); err != nil {
            log.Fatalf("add failed: %v", err)
        }
        fmt.Printf("added to %s\n", target)
        return
    }

    var store *history.Store
    if cfg.HistoryDB != "" {
        if err := config.EnsureDir(filepath.Dir(cfg.HistoryDB)); err != nil {
            log.Printf("warning: history dir: %v", err)
        } else if s, err := history.Open(cfg.HistoryDB); err != nil {
            log.Printf("warning: failed to open history: %v", err)
        } else {
            store = s
            defer store.Close()
        }
    }
    var conds *conditions.Env
    if env, err := conditions.LoadDir(cfg.ConditionsDir); err != nil {
        if cfg.Debug { log.Printf("conditions disabled: %v", err) }
    } else {
        conds = env
    }

    filters := filter.Default()
    filters.Limit = cfg.Limit
    filters.Search = search
    filters.Status = status
    filters.Tags = tags
    filters.OnlyThisTags = onlyTags
    filters.Note = note
    filters.Recur = recur
    filters.RecurMode = filter.ParseRecurMode(cfg.RecurMode)
    filters.ByCondition = byCondition
    var activeFile filter.ActiveFile
    if active != "" {
        filters.CurrentNoteOnly = true
        activeFile = vault.ActiveNote(filepath.ToSlash(active))
    }
    sortType, _ := sortKey(sortBy)

    opts := tui.Options{
        Config:      cfg,
        Settings:    settings,
        Filters:     filters,
        Sort:        sortType,
        Order:       tasks.SortOrder(order),
        Middlewares: middleware.Default(),
        Cache:       vault.NewCache(),
        Daily:       daily,
        History:     store,
        Conditions:  conds,
        Active:      activeFile,
    }
    opts.Cache.Debug = cfg.Debug

    interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
    if asJSON || dumpPath != "" || exportPath != "" || !interactive {
        visible, err := loadVisible(opts)
        if err != nil {
            log.Fatalf("failed to load tasks: %v", err)
        }
        switch {
        case exportPath != "":
            if err := zipper.ExportNotes(cfg.VaultDir, visible, exportPath); err != nil {
                log.Fatalf("export failed: %v", err)
            }
            fmt.Printf("exported notes of %d tasks -> %s\n", len(visible), exportPath)
        case dumpPath != "":
            if err := report.DumpMarkdown(tasks.GroupBy(visible, cfg.Groups), settings, dumpPath); err != nil {
                log.Fatalf("dump failed: %v", err)
            }
            fmt.Printf("dumped %d tasks -> %s\n", len(visible), dumpPath)
        case asJSON:
            enc := json.NewEncoder(os.Stdout)
            enc.SetIndent("", "  ")
            if err := enc.Encode(visible); err != nil {
                log.Fatalf("encode: %v", err)
            }
        default:
            fmt.Printf("%d tasks\n", len(visible))
            for _, t := range visible {
                line := tasks.RenderLine(t, opts.Middlewares, settings)
                fmt.Printf("%s:%d\t%s\n", t.Path, t.LineNumber+1, line)
            }
        }
        return
    }

    if w, err := vault.NewWatcher(cfg.VaultDir, opts.Cache, daily); err != nil {
        log.Printf("warning: watcher disabled: %v", err)
    } else {
        w.Debug = cfg.Debug
        opts.Watcher = w
        defer w.Close()
    }
    model := tui.New(opts)
    p := tea.NewProgram(model, tea.WithAltScreen())
    if _, err := p.Run(); err != nil {
        log.Fatalf("tui error: %v", err)
    }
}

// loadVisible scans the vault once and applies filters and sort.
func loadVisible(o tui.Options) ([]tasks.Task, error) {
    ctx := &tasks.Context{Settings: o.Settings, App: o.Daily}
    all, err := o.Cache.Load(o.Config.VaultDir, o.Middlewares, ctx)
    if err != nil {
        return nil, err
    }
    env := filter.Env{Active: o.Active, Now: time.Now()}
    if o.History != nil {
        rows, err := o.History.List(context.Background())
        if err != nil {
            log.Printf("warning: history: %v", err)
        }
        env.History = rows
    }
    if o.Conditions != nil {
        env.Conditions = o.Conditions
    }
    return filter.Ranked(all, o.Filters, env, o.Sort, o.Order, o.Settings), nil
}

func sortKey(s string) (tasks.SortType, bool) {
    for _, st := range tasks.SortTypes {
        if string(st) == s {
            return st, true
        }
    }
    return tasks.SortNone, false
}
