package vault

import (
    "io/fs"
    "log"
    "path/filepath"
    "strings"

    "github.com/fsnotify/fsnotify"
)

// Change is a note that was written, created, removed or renamed.
type Change struct {
    Path string
    Op   fsnotify.Op
}

// Watcher forwards note changes below a vault root and keeps a Cache in
// step with them.
type Watcher struct {
    root   string
    cache  *Cache
    daily  *Daily
    fw     *fsnotify.Watcher
    events chan Change
    done   chan struct{}
    Debug  bool
}

// NewWatcher watches every non-hidden directory below root. cache and daily
// may be nil.
func NewWatcher(root string, cache *Cache, daily *Daily) (*Watcher, error) {
    fw, err := fsnotify.NewWatcher()
    if err != nil { return nil, err }
    w := &Watcher{root: root, cache: cache, daily: daily, fw: fw, events: make(chan Change, 64), done: make(chan struct{})}
    if err := w.addTree(root); err != nil {
        fw.Close()
        return nil, err
    }
    go w.loop()
    return w, nil
}

func (w *Watcher) addTree(dir string) error {
    return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
        if err != nil { return nil }
        if !d.IsDir() { return nil }
        if path != dir && skipDir(d.Name()) { return filepath.SkipDir }
        return w.fw.Add(path)
    })
}

// Events delivers changes until Close. Slow readers lose events rather than
// block the watcher; a reload picks up whatever was dropped.
func (w *Watcher) Events() <-chan Change { return w.events }

func (w *Watcher) loop() {
    defer close(w.events)
    for {
        select {
        case <-w.done:
            return
        case ev, ok := <-w.fw.Events:
            if !ok { return }
            w.handle(ev)
        case err, ok := <-w.fw.Errors:
            if !ok { return }
            log.Printf("[vault] watch: %v", err)
        }
    }
}

func (w *Watcher) handle(ev fsnotify.Event) {
    rel, err := filepath.Rel(w.root, ev.Name)
    if err != nil || strings.HasPrefix(rel, "..") { return }
    rel = filepath.ToSlash(rel)

    if ev.Has(fsnotify.Create) && !IsNote(rel) {
        // new directories need their own watch
        _ = w.addTree(ev.Name)
        return
    }
    if !IsNote(rel) { return }
    if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
        return
    }
    if w.cache != nil {
        w.cache.Invalidate(rel)
        if w.daily != nil && w.daily.IsDaily(rel) { w.cache.InvalidateBound() }
    }
    if w.Debug { log.Printf("[vault] %s %s", ev.Op, rel) }
    select {
    case w.events <- Change{Path: rel, Op: ev.Op}:
    default:
    }
}

func (w *Watcher) Close() error {
    select {
    case <-w.done:
        return nil
    default:
    }
    close(w.done)
    return w.fw.Close()
}
