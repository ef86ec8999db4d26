package filter

import (
    "errors"
    "testing"

    "grind-task-man/internal/config"
    "grind-task-man/internal/history"
    "grind-task-man/internal/tasks"
)

type activeFile string

func (a activeFile) ActivePath() (string, bool) { return string(a), a != "" }

type fakeEval map[string]bool

func (f fakeEval) Evaluate(c tasks.Condition) (bool, error) {
    v, ok := f[c.Name]
    if !ok { return false, errors.New("unknown condition") }
    return v, nil
}

func TestBySearch(t *testing.T) {
    p := BySearch("MiLk")
    if !p(tasks.Task{Body: "buy milk"}) { t.Fatal("case-insensitive match expected") }
    if p(tasks.Task{Body: "buy bread"}) { t.Fatal("unexpected match") }
    if !p(tasks.Task{Body: ""}) { t.Fatal("empty body passes") }
    if !BySearch("")(tasks.Task{Body: "anything"}) { t.Fatal("empty search passes") }
}

func TestByTag(t *testing.T) {
    tk := tasks.Task{LineContent: "- [ ] run #health #morning"}
    cases := []struct {
        filter string
        only   bool
        want   bool
    }{
        {"", false, true},
        {" , ,", true, true},
        {"health", false, true},
        {"work, health", false, true},
        {"work, health", true, false},
        {"health,morning", true, true},
        {"work", false, false},
    }
    for _, c := range cases {
        if got := ByTag(c.filter, c.only)(tk); got != c.want {
            t.Errorf("ByTag(%q, %v) = %v, want %v", c.filter, c.only, got, c.want)
        }
    }
    if tags := SplitTags(" a, ,b "); len(tags) != 2 || tags[0] != "#a" || tags[1] != "#b" { t.Fatalf("tags = %v", tags) }
}

func TestByNote(t *testing.T) {
    tk := tasks.Task{Path: "Projects/plan.md"}
    if !ByNote("", false, nil)(tk) { t.Fatal("inert without note") }
    if !ByNote("Projects/plan", false, nil)(tk) { t.Fatal("note name match expected") }
    if ByNote("plan", false, nil)(tk) { t.Fatal("note must match full path") }
    if !ByNote("ignored", true, activeFile("Projects/plan.md"))(tk) { t.Fatal("current note match expected") }
    if ByNote("", true, activeFile("other.md"))(tk) { t.Fatal("other current note must exclude") }
    if ByNote("", true, activeFile(""))(tk) { t.Fatal("no active file excludes everything") }
    if ByNote("", true, nil)(tk) { t.Fatal("nil active file excludes everything") }
}

func TestByStatus(t *testing.T) {
    if !ByStatus(StatusAll)(tasks.Task{}) { t.Fatal("all is inert") }
    if ByStatus("done")(tasks.Task{}) { t.Fatal("no status must be excluded") }
    if ByStatus("done")(tasks.Task{Status: tasks.StatusTodo}) { t.Fatal("mismatch") }
    if !ByStatus("done")(tasks.Task{Status: tasks.StatusDone}) { t.Fatal("match expected") }
}

func TestByCondition(t *testing.T) {
    ev := fakeEval{"yes": true, "no": false}
    p := ByCondition(ev)
    if !p(tasks.Task{}) { t.Fatal("tasks without condition pass") }
    if !p(tasks.Task{Condition: &tasks.Condition{Name: "yes"}}) { t.Fatal("true condition passes") }
    if p(tasks.Task{Condition: &tasks.Condition{Name: "no"}}) { t.Fatal("false condition hides") }
    if p(tasks.Task{Condition: &tasks.Condition{Name: "boom"}}) { t.Fatal("errors hide") }
    if ByCondition(nil)(tasks.Task{Condition: &tasks.Condition{Name: "yes"}}) { t.Fatal("no evaluator hides") }
}

func TestBuildCombinesWithAnd(t *testing.T) {
    f := Default()
    f.Search = "milk"
    f.Status = "done"
    p := Build(f, Env{Now: now})
    if p(tasks.Task{Body: "buy milk", Status: tasks.StatusTodo}) { t.Fatal("status mismatch must exclude") }
    if !p(tasks.Task{Body: "buy milk", Status: tasks.StatusDone}) { t.Fatal("all filters match") }
    if p(tasks.Task{Body: "buy bread", Status: tasks.StatusDone}) { t.Fatal("search mismatch must exclude") }
}

func TestBuildRecurModes(t *testing.T) {
    due := tasks.Task{Body: "stretch", Every: "day", Status: tasks.StatusTodo}
    plain := tasks.Task{Body: "stretch later", Status: tasks.StatusDone}
    rows := []history.Row{}

    f := Default()
    f.Recur = true
    f.Status = "done"

    strict := Build(f, Env{History: rows, Now: now})
    if strict(due) { t.Fatal("strict: due task still needs the status filter") }
    if strict(plain) { t.Fatal("strict: non recurring task is hidden") }

    f.RecurMode = RecurOverride
    override := Build(f, Env{History: rows, Now: now})
    if !override(due) { t.Fatal("override: due task surfaces despite status filter") }
    if !override(plain) { t.Fatal("override: tasks passing the other filters stay visible") }
    if override(tasks.Task{Body: "x", Status: tasks.StatusTodo}) { t.Fatal("override: neither gate passes") }

    if ParseRecurMode("override") != RecurOverride || ParseRecurMode("bogus") != RecurStrict { t.Fatal("ParseRecurMode") }
}

func TestApplyAndLimit(t *testing.T) {
    ts := []tasks.Task{{Body: "a1"}, {Body: "b"}, {Body: "a2"}, {Body: "a3"}}
    got := Apply(ts, BySearch("a"), 2)
    if len(got) != 2 || got[0].Body != "a1" || got[1].Body != "a2" { t.Fatalf("got %+v", got) }
    if len(Apply(ts, BySearch("a"), 0)) != 3 { t.Fatal("limit 0 is unlimited") }

    f := Default()
    f.Limit = 1
    f.Search = "a"
    if v := Visible(ts, f, Env{Now: now}); len(v) != 1 || v[0].Body != "a1" { t.Fatalf("visible %+v", v) }
    if !ByRecurrence(tasks.Task{Every: "day"}) || ByRecurrence(tasks.Task{}) { t.Fatal("ByRecurrence") }
}

func TestRankedLimitsAfterSorting(t *testing.T) {
    ts := []tasks.Task{{Body: "c"}, {Body: "b"}, {Body: "a"}}
    f := Default()
    f.Limit = 1
    got := Ranked(ts, f, Env{Now: now}, tasks.SortBody, tasks.SortAsc, &config.Settings{})
    if len(got) != 1 || got[0].Body != "a" { t.Fatalf("got %+v", got) }

    f.Limit = 2
    got = Ranked(ts, f, Env{Now: now}, tasks.SortBody, tasks.SortDesc, &config.Settings{})
    if len(got) != 2 || got[0].Body != "c" || got[1].Body != "b" { t.Fatalf("got %+v", got) }
}

func TestBuildRecurRequiresEvery(t *testing.T) {
    f := Default()
    f.Recur = true
    p := Build(f, Env{Now: now})
    if p(tasks.Task{Body: "one off", Status: tasks.StatusTodo}) { t.Fatal("task without #every must not pass the recur gate") }
    if !p(tasks.Task{Body: "stretch", Every: "day", Status: tasks.StatusTodo}) { t.Fatal("due recurring task must pass") }
}

func TestCommaSeparatedTags(t *testing.T) {
    tags := SplitTags("work,home")
    if len(tags) != 2 || tags[0] != "#work" || tags[1] != "#home" { t.Fatalf("tags = %q", tags) }

    f := Default()
    f.Tags = "work,home"
    either := Build(f, Env{Now: now})
    f.OnlyThisTags = true
    both := Build(f, Env{Now: now})

    one := tasks.Task{LineContent: "- [ ] mow lawn #home"}
    two := tasks.Task{LineContent: "- [ ] plan #work #home"}
    if !either(one) || !either(two) { t.Fatal("any tag matches by default") }
    if both(one) || !both(two) { t.Fatal("only-tags requires every tag") }
}
