package zipper

import (
    "archive/zip"
    "encoding/json"
    "fmt"
    "io"
    "os"
    "path"
    "path/filepath"
    "sort"
    "strings"
    "time"

    "grind-task-man/internal/tasks"
)

const manifestName = "grind-manifest.json"

// ProgressCallback is called during export with current progress (current, total)
type ProgressCallback func(current, total int)

type NoteManifest struct {
    Path  string `json:"path"`
    Tasks int    `json:"tasks"`
    Done  int    `json:"done"`
}

type Manifest struct {
    Version    int            `json:"version"`
    ExportedAt time.Time      `json:"exportedAt"`
    Notes      []NoteManifest `json:"notes"`
}

// ExportNotes writes every note holding one of ts into a zip under notes/,
// next to a manifest that counts the tasks per note.
func ExportNotes(root string, ts []tasks.Task, zipPath string) error {
    return ExportNotesWithProgress(root, ts, zipPath, nil)
}

func ExportNotesWithProgress(root string, ts []tasks.Task, zipPath string, progress ProgressCallback) error {
    byNote := map[string]*NoteManifest{}
    for _, t := range ts {
        m, ok := byNote[t.Path]
        if !ok {
            m = &NoteManifest{Path: t.Path}
            byNote[t.Path] = m
        }
        m.Tasks++
        if t.Status == tasks.StatusDone { m.Done++ }
    }
    mf := Manifest{Version: 1, ExportedAt: time.Now().UTC()}
    for _, m := range byNote { mf.Notes = append(mf.Notes, *m) }
    sort.Slice(mf.Notes, func(i, j int) bool { return mf.Notes[i].Path < mf.Notes[j].Path })

    if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil { return err }
    f, err := os.Create(zipPath)
    if err != nil { return err }
    defer f.Close()
    zw := zip.NewWriter(f)
    defer zw.Close()

    if err := writeJSON(zw, manifestName, mf); err != nil { return err }
    total := len(mf.Notes)
    for i, n := range mf.Notes {
        if err := addFile(zw, filepath.Join(root, filepath.FromSlash(n.Path)), path.Join("notes", n.Path)); err != nil {
            return fmt.Errorf("export %s: %w", n.Path, err)
        }
        if progress != nil { progress(i+1, total) }
    }
    return nil
}

// ReadManifest returns the manifest of an export without extracting it.
func ReadManifest(zipPath string) (Manifest, error) {
    r, err := zip.OpenReader(zipPath)
    if err != nil { return Manifest{}, err }
    defer r.Close()
    return readManifest(&r.Reader, zipPath)
}

func readManifest(r *zip.Reader, zipPath string) (Manifest, error) {
    var mf Manifest
    for _, f := range r.File {
        if f.Name != manifestName { continue }
        rc, err := f.Open()
        if err != nil { return mf, err }
        b, err := io.ReadAll(rc)
        rc.Close()
        if err != nil { return mf, err }
        if err := json.Unmarshal(b, &mf); err != nil { return mf, fmt.Errorf("invalid manifest in %s: %w", zipPath, err) }
        return mf, nil
    }
    return mf, fmt.Errorf("manifest missing in %s", zipPath)
}

// ImportNotes extracts the notes of an export into destRoot and returns the
// vault-relative paths written. An existing note is never overwritten: the
// import lands next to it with a -copy-<timestamp> suffix.
func ImportNotes(zipPath, destRoot string) ([]string, error) {
    r, err := zip.OpenReader(zipPath)
    if err != nil { return nil, err }
    defer r.Close()
    if _, err := readManifest(&r.Reader, zipPath); err != nil { return nil, err }

    stamp := time.Now().Format("20060102-150405")
    var written []string
    for _, f := range r.File {
        if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, "notes/") { continue }
        rel := path.Clean(strings.TrimPrefix(f.Name, "notes/"))
        if rel == "." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
            return written, fmt.Errorf("unsafe path %q in %s", f.Name, zipPath)
        }
        out := filepath.Join(destRoot, filepath.FromSlash(rel))
        if _, err := os.Stat(out); err == nil {
            ext := path.Ext(rel)
            rel = strings.TrimSuffix(rel, ext) + "-copy-" + stamp + ext
            out = filepath.Join(destRoot, filepath.FromSlash(rel))
        }
        if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil { return written, err }
        if err := extractFile(f, out); err != nil { return written, err }
        written = append(written, rel)
    }
    return written, nil
}

func writeJSON(zw *zip.Writer, name string, v any) error {
    w, err := zw.Create(name)
    if err != nil { return err }
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil { return err }
    _, err = w.Write(b)
    return err
}

func addFile(zw *zip.Writer, diskPath, zipRel string) error {
    f, err := os.Open(diskPath)
    if err != nil { return err }
    defer f.Close()
    w, err := zw.Create(zipRel)
    if err != nil { return err }
    _, err = io.Copy(w, f)
    return err
}

func extractFile(f *zip.File, out string) error {
    rc, err := f.Open()
    if err != nil { return err }
    defer rc.Close()
    of, err := os.Create(out)
    if err != nil { return err }
    defer of.Close()
    _, err = io.Copy(of, rc)
    return err
}
