package vault

import (
    "log"
    "os"
    "path"
    "path/filepath"
    "strings"
    "time"

    "gopkg.in/yaml.v3"
)

// Frontmatter decodes the leading YAML block of a note. Notes without one,
// or with invalid YAML, yield nil.
func Frontmatter(content string) map[string]any {
    loc := frontmatterRe.FindStringIndex(content)
    if loc == nil { return nil }
    block := content[:loc[1]]
    block = strings.TrimPrefix(strings.TrimPrefix(block, "---\r\n"), "---\n")
    block = strings.TrimSuffix(strings.TrimSuffix(block, "---\r\n"), "---\n")
    var out map[string]any
    if err := yaml.Unmarshal([]byte(block), &out); err != nil { return nil }
    return out
}

var momentTokens = []struct{ moment, layout string }{
    {"YYYY", "2006"},
    {"YY", "06"},
    {"MMMM", "January"},
    {"MMM", "Jan"},
    {"MM", "01"},
    {"M", "1"},
    {"dddd", "Monday"},
    {"ddd", "Mon"},
    {"DD", "02"},
    {"D", "2"},
    {"HH", "15"},
    {"mm", "04"},
}

// MomentLayout converts a moment.js date format, as used by daily note
// settings, into a Go time layout. Text in [brackets] is kept literally.
func MomentLayout(format string) string {
    var b strings.Builder
    for i := 0; i < len(format); {
        if format[i] == '[' {
            if j := strings.IndexByte(format[i:], ']'); j > 0 {
                b.WriteString(format[i+1 : i+j])
                i += j + 1
                continue
            }
        }
        matched := false
        for _, tok := range momentTokens {
            if strings.HasPrefix(format[i:], tok.moment) {
                b.WriteString(tok.layout)
                i += len(tok.moment)
                matched = true
                break
            }
        }
        if !matched {
            b.WriteByte(format[i])
            i++
        }
    }
    return b.String()
}

// Daily resolves properties of today's daily note. It implements tasks.App.
type Daily struct {
    Root   string
    Folder string
    Format string
    Now    func() time.Time
    Debug  bool
}

// NotePath is today's daily note, vault-relative.
func (d Daily) NotePath() string {
    now := time.Now
    if d.Now != nil { now = d.Now }
    format := d.Format
    if format == "" { format = "YYYY-MM-DD" }
    name := now().Format(MomentLayout(format)) + ".md"
    if d.Folder == "" { return name }
    return path.Join(strings.Trim(d.Folder, "/"), name)
}

func (d Daily) DailyProperty(name string) (any, bool) {
    p := d.NotePath()
    b, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(p)))
    if err != nil {
        if d.Debug && !os.IsNotExist(err) { log.Printf("[vault] daily note %s: %v", p, err) }
        return nil, false
    }
    fm := Frontmatter(string(b))
    v, ok := fm[name]
    return v, ok
}

// IsDaily reports whether rel lives in the daily notes folder.
func (d Daily) IsDaily(rel string) bool {
    if !IsNote(rel) { return false }
    if d.Folder == "" { return !strings.Contains(rel, "/") }
    return strings.HasPrefix(rel, strings.Trim(d.Folder, "/")+"/")
}
