// Package middleware holds one parse/stringify pair per inline metadata
// channel. Each channel owns its own regular expression; the expressions do
// not overlap, so the order in Default only matters for the checkbox, which
// has to see the raw line first.
package middleware

import "grind-task-man/internal/tasks"

// Default returns the channels in pipeline order.
func Default() []tasks.Middleware {
    return []tasks.Middleware{
        Checkbox{},
        Completed{},
        Counter{},
        Difficulty{},
        Every{},
        Bind{},
        Group{},
        Condition{},
    }
}

// ByName looks a channel up in mws.
func ByName(mws []tasks.Middleware, name string) (tasks.Middleware, bool) {
    for _, mw := range mws {
        if mw.Name() == name { return mw, true }
    }
    return nil, false
}
