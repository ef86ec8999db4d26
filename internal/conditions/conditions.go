package conditions

import (
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "sync"
    "time"

    "github.com/dop251/goja"

    "grind-task-man/internal/tasks"
)

var debug bool

// EnableDebug toggles verbose [conditions] logging.
func EnableDebug(on bool) { debug = on }

var ErrNotFunction = errors.New("condition is not a function")

// Env evaluates task conditions. Every script file runs in its own goja
// runtime, loaded lazily and kept for the lifetime of the Env. goja runtimes
// are not safe for concurrent use, hence the mutex.
type Env struct {
    dir  string
    mu   sync.Mutex
    rts  map[string]*goja.Runtime
    errs map[string]error
    now  func() time.Time
}

// LoadDir prepares an Env reading scripts from dir. A missing dir is not an
// error; every condition then evaluates to false.
func LoadDir(dir string) (*Env, error) {
    env := &Env{dir: dir, rts: map[string]*goja.Runtime{}, errs: map[string]error{}, now: time.Now}
    if dir == "" { return env, nil }
    if _, err := os.Stat(dir); err != nil && debug {
        log.Printf("[conditions] scripts dir unavailable: %v", err)
    }
    return env, nil
}

func (e *Env) Dir() string { return e.dir }

// Evaluate calls c.Name from script c.File with c.Arg and returns whether the
// result is truthy.
func (e *Env) Evaluate(c tasks.Condition) (bool, error) {
    if e == nil { return false, errors.New("no condition environment") }
    e.mu.Lock()
    defer e.mu.Unlock()

    rt, err := e.runtime(c.File)
    if err != nil { return false, err }
    v := rt.Get(c.Name)
    if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
        return false, fmt.Errorf("%s: %w: %s", c.File, ErrNotFunction, c.Name)
    }
    fn, ok := goja.AssertFunction(v)
    if !ok { return false, fmt.Errorf("%s: %w: %s", c.File, ErrNotFunction, c.Name) }
    rv, err := fn(goja.Undefined(), rt.ToValue(c.Arg))
    if err != nil {
        if debug { log.Printf("[conditions] error calling %s in %s: %v", c.Name, c.File, err) }
        return false, fmt.Errorf("call %s: %w", c.Name, err)
    }
    if debug { log.Printf("[conditions] %s(%q) returned: %#v", c.Name, c.Arg, rv.Export()) }
    return rv.ToBoolean(), nil
}

func (e *Env) runtime(file string) (*goja.Runtime, error) {
    if rt, ok := e.rts[file]; ok { return rt, nil }
    if err, ok := e.errs[file]; ok { return nil, err }

    rt, err := e.load(file)
    if err != nil {
        e.errs[file] = err
        return nil, err
    }
    e.rts[file] = rt
    return rt, nil
}

func (e *Env) load(file string) (*goja.Runtime, error) {
    if e.dir == "" { return nil, errors.New("conditions dir not configured") }
    clean := filepath.Clean(filepath.FromSlash(file))
    if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
        return nil, fmt.Errorf("condition file outside scripts dir: %s", file)
    }
    b, err := os.ReadFile(filepath.Join(e.dir, clean))
    if err != nil { return nil, fmt.Errorf("read condition script: %w", err) }

    rt := goja.New()
    e.exposeHelpers(rt)
    if _, err := rt.RunString(stripExports(string(b))); err != nil {
        log.Printf("[conditions] error evaluating %s: %v", file, err)
        return nil, fmt.Errorf("evaluate %s: %w", file, err)
    }
    if debug { log.Printf("[conditions] loaded %s", file) }
    return rt, nil
}

func (e *Env) exposeHelpers(rt *goja.Runtime) {
    rt.Set("readText", func(call goja.FunctionCall) goja.Value {
        if len(call.Arguments) < 1 { return goja.Undefined() }
        p := call.Arguments[0].String()
        if !filepath.IsAbs(p) { p = filepath.Join(e.dir, p) }
        b, err := os.ReadFile(p)
        if err != nil { return goja.Null() }
        return rt.ToValue(string(b))
    })
    rt.Set("today", func(goja.FunctionCall) goja.Value {
        return rt.ToValue(e.now().Format("2006-01-02"))
    })
    rt.Set("weekday", func(goja.FunctionCall) goja.Value {
        return rt.ToValue(strings.ToLower(e.now().Weekday().String()[:3]))
    })
}

// stripExports turns simple ES module syntax into plain script. Exported
// bindings become var so they land on the global object where Get finds them.
func stripExports(code string) string {
    code = strings.ReplaceAll(code, "export default function ", "function ")
    code = strings.ReplaceAll(code, "export function ", "function ")
    code = strings.ReplaceAll(code, "export const ", "var ")
    code = strings.ReplaceAll(code, "export let ", "var ")
    code = strings.ReplaceAll(code, "export var ", "var ")
    return code
}
