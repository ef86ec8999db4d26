package vault

import (
    "log"
    "os"
    "path/filepath"
    "sync"
    "time"

    "grind-task-man/internal/tasks"
)

type cacheEntry struct {
    modTime time.Time
    size    int64
    tasks   []tasks.Task
}

// Cache keeps parsed tasks per note so a reload only re-parses notes whose
// modification time or size changed. It belongs to whoever drives the scans
// and is invalidated explicitly by the watcher.
type Cache struct {
    mu      sync.Mutex
    entries map[string]cacheEntry
    Debug   bool
}

func NewCache() *Cache { return &Cache{entries: map[string]cacheEntry{}} }

// Invalidate drops the entry of one vault-relative path.
func (c *Cache) Invalidate(rel string) {
    c.mu.Lock()
    delete(c.entries, rel)
    c.mu.Unlock()
}

// InvalidateBound drops every note that holds a #bind task, whose parsed
// state depends on the daily note rather than on the note itself.
func (c *Cache) InvalidateBound() {
    c.mu.Lock()
    defer c.mu.Unlock()
    for p, e := range c.entries {
        for _, t := range e.tasks {
            if t.Bind != "" {
                delete(c.entries, p)
                break
            }
        }
    }
}

func (c *Cache) Reset() {
    c.mu.Lock()
    c.entries = map[string]cacheEntry{}
    c.mu.Unlock()
}

func (c *Cache) Len() int {
    c.mu.Lock()
    defer c.mu.Unlock()
    return len(c.entries)
}

// Load returns the parsed tasks of every note below root in path order.
func (c *Cache) Load(root string, mws []tasks.Middleware, ctx *tasks.Context) ([]tasks.Task, error) {
    paths, err := NotePaths(root)
    if err != nil { return nil, err }

    c.mu.Lock()
    defer c.mu.Unlock()
    seen := make(map[string]struct{}, len(paths))
    var out []tasks.Task
    parsed := 0
    for _, p := range paths {
        seen[p] = struct{}{}
        info, err := os.Stat(filepath.Join(root, filepath.FromSlash(p)))
        if err != nil { continue }
        if e, ok := c.entries[p]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
            out = append(out, e.tasks...)
            continue
        }
        f, err := ReadFile(root, p)
        if err != nil { continue }
        ts := tasks.ApplyMiddlewares(tasks.ExtractFile(f), mws, ctx)
        c.entries[p] = cacheEntry{modTime: info.ModTime(), size: info.Size(), tasks: ts}
        out = append(out, ts...)
        parsed++
    }
    for p := range c.entries {
        if _, ok := seen[p]; !ok { delete(c.entries, p) }
    }
    if c.Debug { log.Printf("[vault] loaded %d tasks from %d notes (%d parsed)", len(out), len(paths), parsed) }
    return out, nil
}
