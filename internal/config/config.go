package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// Group describes how tasks tagged with #group/<ID> are shown.
type Group struct {
    ID       string `json:"id"`
    Title    string `json:"title"`
    Color    string `json:"color"`
    Priority int    `json:"priority"`
}

type Config struct {
    VaultDir      string         `json:"vaultDir"`
    HistoryDB     string         `json:"historyDb"`
    ConditionsDir string         `json:"conditionsDir"`
    DailyFolder   string         `json:"dailyFolder"`   // vault-relative folder of daily notes
    DailyFormat   string         `json:"dailyFormat"`   // moment-style, e.g. YYYY-MM-DD
    Difficulty    map[string]int `json:"difficulty"`    // reward points per #diff/<key>
    Groups        []Group        `json:"groups"`
    RecurMode     string         `json:"recurMode"`     // strict | override
    Limit         int            `json:"limit"`
    ExportDir     string         `json:"exportDir"`     // where the panel writes note exports
    Debug         bool           `json:"debug"`
}

// Settings is the subset of the configuration the middlewares and reward
// logic read. It is passed by pointer and may be nil.
type Settings struct {
    Difficulty  map[string]int
    DailyFolder string
    DailyFormat string
}

// Price returns the reward value of a difficulty key, 0 when unknown.
func (s *Settings) Price(difficulty string) int {
    if s == nil || s.Difficulty == nil { return 0 }
    return s.Difficulty[difficulty]
}

func DefaultDifficulty() map[string]int {
    return map[string]int{
        "trivial": 1,
        "easy":    2,
        "medium":  5,
        "hard":    10,
        "epic":    25,
    }
}

func Default() Config {
    return Config{
        VaultDir:      ".",
        HistoryDB:     filepath.Join(UserHome(), ".config", "grind-task-man", "history.db"),
        ConditionsDir: filepath.Join(UserHome(), ".config", "grind-task-man", "conditions"),
        DailyFolder:   "",
        DailyFormat:   "YYYY-MM-DD",
        Difficulty:    DefaultDifficulty(),
        RecurMode:     "strict",
        Debug:         false,
    }
}

// Settings derives the middleware settings from the configuration.
func (c Config) Settings() *Settings {
    d := c.Difficulty
    if len(d) == 0 { d = DefaultDifficulty() }
    return &Settings{Difficulty: d, DailyFolder: c.DailyFolder, DailyFormat: c.DailyFormat}
}

// Load reads the JSON file at path into out. Empty fields keep the values
// already present in out.
func Load(path string, out *Config) error {
    b, err := os.ReadFile(path)
    if err != nil {
        return err
    }
    var c Config
    if err := json.Unmarshal(b, &c); err != nil {
        return err
    }
    if c.VaultDir == "" {
        c.VaultDir = out.VaultDir
    }
    if c.HistoryDB == "" {
        c.HistoryDB = out.HistoryDB
    }
    if c.ConditionsDir == "" {
        c.ConditionsDir = out.ConditionsDir
    }
    if c.DailyFormat == "" {
        c.DailyFormat = out.DailyFormat
    }
    if len(c.Difficulty) == 0 {
        c.Difficulty = out.Difficulty
    }
    if c.RecurMode == "" {
        c.RecurMode = out.RecurMode
    }
    *out = c
    return nil
}

func Save(path string, c Config) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return err
    }
    b, err := json.MarshalIndent(c, "", "  ")
    if err != nil {
        return err
    }
    return os.WriteFile(path, b, 0o644)
}

func UserHome() string {
    if h, err := os.UserHomeDir(); err == nil {
        return h
    }
    if runtime.GOOS == "windows" {
        if h := os.Getenv("USERPROFILE"); h != "" {
            return h
        }
    }
    return "."
}

func EnsureDir(path string) error {
    if path == "" {
        return errors.New("empty path")
    }
    return os.MkdirAll(path, 0o755)
}
