package conditions

import (
    "errors"
    "os"
    "path/filepath"
    "testing"
    "time"

    "grind-task-man/internal/tasks"
)

func writeScript(t *testing.T, dir, name, code string) {
    t.Helper()
    p := filepath.Join(dir, name)
    if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { t.Fatal(err) }
    if err := os.WriteFile(p, []byte(code), 0o644); err != nil { t.Fatal(err) }
}

func TestEvaluate(t *testing.T) {
    dir := t.TempDir()
    writeScript(t, dir, "days.js", `
export function isWeekday(arg) { return arg === weekday(); }
export const always = (arg) => arg !== "never";
function helper() { return 1; }
var notAFunction = 3;
`)
    writeScript(t, dir, "lib/files.js", `export function hasText(p) { const s = readText(p); return s !== null && s.length > 0; }`)
    writeScript(t, dir, "notes.txt", "hello")

    env, err := LoadDir(dir)
    if err != nil { t.Fatal(err) }
    env.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local) } // a Monday

    cases := []struct {
        c    tasks.Condition
        want bool
    }{
        {tasks.Condition{Name: "isWeekday", File: "days.js", Arg: "mon"}, true},
        {tasks.Condition{Name: "isWeekday", File: "days.js", Arg: "tue"}, false},
        {tasks.Condition{Name: "always", File: "days.js", Arg: "x"}, true},
        {tasks.Condition{Name: "always", File: "days.js", Arg: "never"}, false},
        {tasks.Condition{Name: "hasText", File: "lib/files.js", Arg: "notes.txt"}, true},
        {tasks.Condition{Name: "hasText", File: "lib/files.js", Arg: "missing.txt"}, false},
    }
    for _, c := range cases {
        got, err := env.Evaluate(c.c)
        if err != nil { t.Fatalf("%+v: %v", c.c, err) }
        if got != c.want { t.Errorf("%+v: got %v, want %v", c.c, got, c.want) }
    }
}

func TestEvaluateErrors(t *testing.T) {
    dir := t.TempDir()
    writeScript(t, dir, "bad.js", "function (")
    writeScript(t, dir, "ok.js", "var notAFunction = 3; function throws() { throw new Error('x'); }")
    env, _ := LoadDir(dir)

    if _, err := env.Evaluate(tasks.Condition{Name: "f", File: "missing.js"}); err == nil { t.Fatal("missing file must fail") }
    if _, err := env.Evaluate(tasks.Condition{Name: "f", File: "bad.js"}); err == nil { t.Fatal("syntax error must fail") }
    if _, err := env.Evaluate(tasks.Condition{Name: "nope", File: "ok.js"}); !errors.Is(err, ErrNotFunction) { t.Fatalf("err = %v", err) }
    if _, err := env.Evaluate(tasks.Condition{Name: "notAFunction", File: "ok.js"}); !errors.Is(err, ErrNotFunction) { t.Fatalf("err = %v", err) }
    if _, err := env.Evaluate(tasks.Condition{Name: "throws", File: "ok.js"}); err == nil { t.Fatal("throwing function must fail") }
    if _, err := env.Evaluate(tasks.Condition{Name: "f", File: "../outside.js"}); err == nil { t.Fatal("escaping the dir must fail") }

    var nilEnv *Env
    if _, err := nilEnv.Evaluate(tasks.Condition{}); err == nil { t.Fatal("nil env must fail") }
    empty, _ := LoadDir("")
    if _, err := empty.Evaluate(tasks.Condition{Name: "f", File: "a.js"}); err == nil { t.Fatal("unconfigured dir must fail") }
}
