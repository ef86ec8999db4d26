// Package history keeps the append-only reward log in SQLite.
package history

import (
    "context"
    "database/sql"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    _ "modernc.org/sqlite"
)

// DateLayout is how row dates are stored: local wall clock, minute precision.
const DateLayout = "2006-01-02 15:04"

// Row is one reward change tied to a task title.
type Row struct {
    ID     int64  `json:"id"`
    Title  string `json:"title"`
    Change int    `json:"change"`
    Date   string `json:"date"`
}

// Delta is the input for AddDeltas; it mirrors tasks.RewardDelta without
// importing the tasks package.
type Delta struct {
    Title  string
    Change int
}

type Store struct {
    db   *sql.DB
    path string
}

// Open creates (if needed) and opens the history database at path.
func Open(path string) (*Store, error) {
    path = strings.TrimSpace(path)
    if path == "" {
        return nil, fmt.Errorf("history db path is empty")
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return nil, fmt.Errorf("create history directory: %w", err)
    }
    db, err := sql.Open("sqlite", path)
    if err != nil {
        return nil, fmt.Errorf("open sqlite: %w", err)
    }
    for _, p := range []string{
        "PRAGMA journal_mode=WAL",
        "PRAGMA busy_timeout=5000",
        "PRAGMA synchronous=NORMAL",
    } {
        if _, err := db.Exec(p); err != nil {
            _ = db.Close()
            return nil, fmt.Errorf("exec %q: %w", p, err)
        }
    }
    s := &Store{db: db, path: path}
    if err := s.ensureSchema(); err != nil {
        _ = db.Close()
        return nil, fmt.Errorf("ensure schema: %w", err)
    }
    return s, nil
}

func (s *Store) ensureSchema() error {
    _, err := s.db.Exec(`
    CREATE TABLE IF NOT EXISTS history (
        id     INTEGER PRIMARY KEY AUTOINCREMENT,
        title  TEXT NOT NULL,
        change INTEGER NOT NULL,
        date   TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_history_date ON history(date);
    `)
    return err
}

func (s *Store) Close() error {
    if s == nil || s.db == nil { return nil }
    return s.db.Close()
}

func (s *Store) Path() string { return s.path }

// Add appends r. An empty date is stamped with the current local time.
func (s *Store) Add(ctx context.Context, r Row) (Row, error) {
    if r.Date == "" { r.Date = time.Now().Local().Format(DateLayout) }
    res, err := s.db.ExecContext(ctx, "INSERT INTO history(title, change, date) VALUES(?, ?, ?)", r.Title, r.Change, r.Date)
    if err != nil {
        return r, fmt.Errorf("insert history row: %w", err)
    }
    if id, err := res.LastInsertId(); err == nil { r.ID = id }
    return r, nil
}

// AddDeltas appends every delta in one transaction, all stamped with now.
func (s *Store) AddDeltas(ctx context.Context, ds []Delta, now time.Time) error {
    if len(ds) == 0 { return nil }
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil { return fmt.Errorf("begin: %w", err) }
    defer tx.Rollback()
    date := now.In(time.Local).Format(DateLayout)
    for _, d := range ds {
        if _, err := tx.ExecContext(ctx, "INSERT INTO history(title, change, date) VALUES(?, ?, ?)", d.Title, d.Change, date); err != nil {
            return fmt.Errorf("insert history row: %w", err)
        }
    }
    return tx.Commit()
}

// List returns the whole log, oldest first.
func (s *Store) List(ctx context.Context) ([]Row, error) {
    return s.query(ctx, "SELECT id, title, change, date FROM history ORDER BY date, id")
}

// Since returns rows dated on or after day (YYYY-MM-DD), oldest first.
func (s *Store) Since(ctx context.Context, day string) ([]Row, error) {
    return s.query(ctx, "SELECT id, title, change, date FROM history WHERE date >= ? ORDER BY date, id", day)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Row, error) {
    rows, err := s.db.QueryContext(ctx, q, args...)
    if err != nil { return nil, fmt.Errorf("query history: %w", err) }
    defer rows.Close()
    var out []Row
    for rows.Next() {
        var r Row
        if err := rows.Scan(&r.ID, &r.Title, &r.Change, &r.Date); err != nil {
            return nil, fmt.Errorf("scan history: %w", err)
        }
        out = append(out, r)
    }
    return out, rows.Err()
}

// Total is the sum of all reward changes.
func (s *Store) Total(ctx context.Context) (int, error) {
    var total sql.NullInt64
    if err := s.db.QueryRowContext(ctx, "SELECT SUM(change) FROM history").Scan(&total); err != nil {
        return 0, fmt.Errorf("sum history: %w", err)
    }
    return int(total.Int64), nil
}
