package tasks

import (
    "regexp"
    "strings"

    "grind-task-man/internal/config"
)

// App exposes the bits of the surrounding note app a middleware may consult
// while parsing. Implementations live outside this package.
type App interface {
    // DailyProperty returns a frontmatter property of today's daily note.
    DailyProperty(name string) (any, bool)
}

// Context is handed to every Parse call. Both fields may be nil.
type Context struct {
    Settings *config.Settings
    App      App
}

func (c *Context) settings() *config.Settings {
    if c == nil { return nil }
    return c.Settings
}

// Middleware is one metadata channel: Parse lifts its tag out of Body into a
// structured field, Stringify renders the field back as a line fragment.
//
// Parse must be idempotent and must leave other channels' tags alone.
// Stringify returns "" when the field is absent, otherwise a fragment with a
// leading space that Parse would recognise.
type Middleware interface {
    Name() string
    Parse(t Task, ctx *Context) Task
    Stringify(t Task, s *config.Settings) string
}

// Prefixer is implemented by middlewares whose text sits before the body
// (the checkbox marker) instead of after it.
type Prefixer interface {
    Prefix(t Task, s *config.Settings) string
}

// ApplyMiddlewares runs every task through each middleware in order. The
// input slice is left untouched.
func ApplyMiddlewares(ts []Task, mws []Middleware, ctx *Context) []Task {
    out := make([]Task, len(ts))
    copy(out, ts)
    for _, mw := range mws {
        for i := range out {
            out[i] = mw.Parse(out[i], ctx)
        }
    }
    return out
}

// Parse runs a single task through the pipeline.
func Parse(t Task, mws []Middleware, ctx *Context) Task {
    for _, mw := range mws {
        t = mw.Parse(t, ctx)
    }
    return t
}

// Stringify concatenates the fragments of every middleware in order. The
// caller joins them with the body.
func Stringify(t Task, mws []Middleware, s *config.Settings) string {
    var b strings.Builder
    for _, mw := range mws {
        b.WriteString(mw.Stringify(t, s))
    }
    return b.String()
}

// RenderLine rebuilds the full markdown line for t.
func RenderLine(t Task, mws []Middleware, s *config.Settings) string {
    var b strings.Builder
    for _, mw := range mws {
        if p, ok := mw.(Prefixer); ok {
            b.WriteString(p.Prefix(t, s))
        }
    }
    b.WriteString(t.Body)
    b.WriteString(Stringify(t, mws, s))
    return b.String()
}

// FindByRegex matches re against the task body.
func FindByRegex(re *regexp.Regexp, t Task) []string {
    return re.FindStringSubmatch(t.Body)
}

// CleanBody removes every match of re, each with at most one trailing
// whitespace character, and trims the result. Removing all matches keeps
// Parse idempotent when a line repeats a tag.
func CleanBody(re *regexp.Regexp, t Task) string {
    withSpace := regexp.MustCompile(`(?:` + re.String() + `)\s?`)
    return strings.TrimSpace(withSpace.ReplaceAllString(t.Body, ""))
}
