package report

import (
    "strings"
    "unicode/utf8"
)

// CleanOneLine converts input to a single line, removing inline code fences and
// collapsing whitespace. If the result exceeds maxLen runes it is truncated.
// It returns the cleaned text and whether it was changed or truncated.
func CleanOneLine(s string, maxLen int) (string, bool, bool) {
    orig := s
    for {
        i := strings.Index(s, "```")
        if i < 0 { break }
        j := strings.Index(s[i+3:], "```")
        if j < 0 {
            s = s[:i]
            break
        }
        s = s[:i] + s[i+3+j+3:]
    }
    s = strings.ReplaceAll(s, "\r", " ")
    s = strings.ReplaceAll(s, "\n", " ")
    s = strings.TrimSpace(strings.Join(strings.Fields(s), " "))

    truncated := false
    if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
        s = string([]rune(s)[:maxLen]) + "…"
        truncated = true
    }
    return s, s != orig, truncated
}

// minimal HTML escaping for <summary> text
func escapeHTML(s string) string {
    r := strings.NewReplacer(
        "&", "&amp;",
        "<", "&lt;",
        ">", "&gt;",
        "\"", "&quot;",
        "'", "&#39;",
    )
    return r.Replace(s)
}
