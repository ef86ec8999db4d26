package history

import (
    "context"
    "path/filepath"
    "testing"
    "time"
)

func openTemp(t *testing.T) *Store {
    t.Helper()
    s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"))
    if err != nil { t.Fatalf("open: %v", err) }
    t.Cleanup(func() { _ = s.Close() })
    return s
}

func TestAddListTotal(t *testing.T) {
    ctx := context.Background()
    s := openTemp(t)

    if _, err := s.Add(ctx, Row{Title: "run", Change: 10, Date: "2026-02-06 08:00"}); err != nil { t.Fatal(err) }
    r, err := s.Add(ctx, Row{Title: "read", Change: 5, Date: "2026-02-07 09:30"})
    if err != nil { t.Fatal(err) }
    if r.ID == 0 { t.Fatal("expected id to be assigned") }
    if _, err := s.Add(ctx, Row{Title: "run", Change: -10, Date: "2026-02-07 10:00"}); err != nil { t.Fatal(err) }

    all, err := s.List(ctx)
    if err != nil { t.Fatal(err) }
    if len(all) != 3 || all[0].Title != "run" || all[2].Change != -10 { t.Fatalf("unexpected rows %+v", all) }

    since, err := s.Since(ctx, "2026-02-07")
    if err != nil { t.Fatal(err) }
    if len(since) != 2 { t.Fatalf("expected 2 rows since 2026-02-07, got %+v", since) }

    total, err := s.Total(ctx)
    if err != nil { t.Fatal(err) }
    if total != 5 { t.Fatalf("total = %d", total) }
}

func TestTotalOfEmptyLog(t *testing.T) {
    total, err := openTemp(t).Total(context.Background())
    if err != nil || total != 0 { t.Fatalf("total = %d, err = %v", total, err) }
}

func TestAddStampsDate(t *testing.T) {
    r, err := openTemp(t).Add(context.Background(), Row{Title: "x", Change: 1})
    if err != nil { t.Fatal(err) }
    if _, err := time.ParseInLocation(DateLayout, r.Date, time.Local); err != nil { t.Fatalf("bad date %q: %v", r.Date, err) }
}

func TestAddDeltasAndDaily(t *testing.T) {
    ctx := context.Background()
    s := openTemp(t)
    day := time.Date(2026, 2, 7, 12, 0, 0, 0, time.Local)
    if err := s.AddDeltas(ctx, []Delta{{Title: "a", Change: 4}, {Title: "b", Change: -1}}, day); err != nil { t.Fatal(err) }
    if err := s.AddDeltas(ctx, []Delta{{Title: "a", Change: 2}}, day.AddDate(0, 0, -1)); err != nil { t.Fatal(err) }
    if err := s.AddDeltas(ctx, nil, day); err != nil { t.Fatal(err) }

    stats, err := s.Daily(ctx)
    if err != nil { t.Fatal(err) }
    if len(stats) != 2 { t.Fatalf("expected 2 days, got %+v", stats) }
    if stats[0].Date != "2026-02-07" || stats[0].Earned != 4 || stats[0].Spent != 1 || stats[0].Entries != 2 || stats[0].Net() != 3 {
        t.Fatalf("unexpected newest day %+v", stats[0])
    }

    rows, _ := s.List(ctx)
    total, per := Summarize(rows)
    if total != 5 || per["a"] != 6 || per["b"] != -1 { t.Fatalf("summary %d %v", total, per) }
}

func TestOpenRejectsEmptyPath(t *testing.T) {
    if _, err := Open("  "); err == nil { t.Fatal("expected error") }
}
