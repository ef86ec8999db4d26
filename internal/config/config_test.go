package config

import (
    "os"
    "path/filepath"
    "testing"
)

func TestLoadKeepsDefaultsForEmptyFields(t *testing.T) {
    p := filepath.Join(t.TempDir(), "cfg.json")
    if err := os.WriteFile(p, []byte(`{"vaultDir":"/notes","debug":true}`), 0o644); err != nil { t.Fatal(err) }

    cfg := Default()
    if err := Load(p, &cfg); err != nil { t.Fatalf("load: %v", err) }
    if cfg.VaultDir != "/notes" { t.Fatalf("expected vaultDir /notes, got %q", cfg.VaultDir) }
    if !cfg.Debug { t.Fatal("expected debug on") }
    if cfg.RecurMode != "strict" { t.Fatalf("expected default recur mode, got %q", cfg.RecurMode) }
    if cfg.Difficulty["hard"] != 10 { t.Fatalf("expected default difficulty table, got %v", cfg.Difficulty) }
}

func TestSaveThenLoad(t *testing.T) {
    p := filepath.Join(t.TempDir(), "nested", "cfg.json")
    in := Default()
    in.Difficulty = map[string]int{"small": 3}
    in.Groups = []Group{{ID: "work", Title: "Work", Priority: 1}}
    if err := Save(p, in); err != nil { t.Fatalf("save: %v", err) }

    out := Default()
    if err := Load(p, &out); err != nil { t.Fatalf("load: %v", err) }
    if out.Difficulty["small"] != 3 || len(out.Difficulty) != 1 {
        t.Fatalf("unexpected difficulty %v", out.Difficulty)
    }
    if len(out.Groups) != 1 || out.Groups[0].Title != "Work" {
        t.Fatalf("unexpected groups %v", out.Groups)
    }
}

func TestSettingsPrice(t *testing.T) {
    var nilSettings *Settings
    if nilSettings.Price("easy") != 0 { t.Fatal("nil settings must price 0") }

    s := Config{}.Settings()
    if s.Price("easy") != 2 { t.Fatalf("expected fallback table, got %d", s.Price("easy")) }
    if s.Price("unknown") != 0 { t.Fatal("unknown difficulty must price 0") }
}
