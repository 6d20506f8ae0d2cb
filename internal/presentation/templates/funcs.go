package templates

import (
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/media"
)

const (
	excerptLines = 4
	wordsPerLine = 15
)

var avatarColors = []string{"blue", "green", "purple", "amber", "pink", "teal"}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

func funcMap(assetOrigin string) template.FuncMap {
	return template.FuncMap{
		"statDisplay": content.StatDisplayValue,
		"fileSize":    media.FormatSize,
		"date":        FormatDate,
		"initials":    Initials,
		"avatarColor": AvatarColor,
		"icon":        content.IconGlyph,
		"iconLabel":   content.IconLabel,
		"excerpt":     Excerpt,
		"assetURL": func(path string) string {
			return content.ResolveAssetURL(assetOrigin, path)
		},
		"cardTone": func(i int) string {
			if i%2 == 0 {
				return "purple"
			}
			return "blue"
		},
	}
}

// FormatDate renders an API timestamp as "Jan 2, 2006". Unparseable input is returned unchanged.
func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}

// Initials is the first letter of up to two words, upper-cased
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}

// AvatarColor picks a stable colour from the last hex digit of id
func AvatarColor(id content.ID) string {
	s := id.String()
	if s == "" {
		return avatarColors[0]
	}
	v, err := strconv.ParseInt(s[len(s)-1:], 16, 64)
	if err != nil {
		return avatarColors[0]
	}
	return avatarColors[int(v)%len(avatarColors)]
}

// Excerpt shortens a program description to about four lines. It prefers
// explicit lines, then sentences, then wraps words fifteen to a line.
func Excerpt(description string) string {
	var lines []string
	for _, l := range strings.Split(description, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) >= excerptLines {
		return strings.Join(lines[:excerptLines], " ")
	}

	var sentences []string
	for _, s := range sentenceSplit.Split(description, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) >= excerptLines {
		return strings.Join(sentences[:excerptLines], ". ") + "."
	}

	words := strings.Split(description, " ")
	var b strings.Builder
	lineCount := 0
	for i := 0; i < len(words) && lineCount < excerptLines; i++ {
		b.WriteString(words[i])
		b.WriteByte(' ')
		if (i+1)%wordsPerLine == 0 {
			lineCount++
		}
	}
	out := strings.TrimSpace(b.String())
	if lineCount >= excerptLines {
		out += "..."
	}
	return out
}
