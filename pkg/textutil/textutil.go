// Package textutil holds the small string and number helpers shared by the
// pipeline and the markdown renderer.
//
// All functions are pure and deterministic; the renderer relies on that for
// byte-identical output across runs.
package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonAlnumRE   = regexp.MustCompile(`[^a-zA-Z0-9]`)
	emojiShortRE = regexp.MustCompile(`:[a-zA-Z_]*:`)
)

// SimplifyStr strips everything except ASCII letters and digits and lowercases
// the result. It is the lookup key for licenses and labels.
func SimplifyStr(s string) string {
	return strings.ToLower(nonAlnumRE.ReplaceAllString(strings.TrimSpace(s), ""))
}

// CleanWhitespace collapses runs of whitespace into single spaces and trims
// both ends.
func CleanWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var magnitudes = []string{"", "K", "M", "B", "T"}

// SimplifyNumber abbreviates n to two significant digits with a K/M/B/T
// suffix, e.g. 1234 -> "1.2K", 999999 -> "1M", 15 -> "15".
func SimplifyNumber(n int) string {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(n), 'g', 2, 64), 64)
	mag := 0
	for (v >= 1000 || v <= -1000) && mag < len(magnitudes)-1 {
		mag++
		v /= 1000
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + magnitudes[mag]
}

// RemoveNonASCII drops every rune outside the ASCII range.
func RemoveNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Shorten collapses whitespace and, if the text is longer than width, keeps
// as many whole words as fit together with the placeholder. When not even
// the first word fits, only the placeholder is returned.
func Shorten(text string, width int, placeholder string) string {
	words := strings.Fields(text)
	joined := strings.Join(words, " ")
	if len(joined) <= width {
		return joined
	}

	n, cur := 0, 0
	for i, w := range words {
		add := len(w)
		if i > 0 {
			add++
		}
		if cur+add > width {
			break
		}
		cur += add
		n = i + 1
	}
	for n > 0 {
		if cur+len(placeholder) <= width {
			return strings.Join(words[:n], " ") + placeholder
		}
		cur -= len(words[n-1])
		if n > 1 {
			cur--
		}
		n--
	}
	return strings.TrimLeft(placeholder, " ")
}

// ProcessDescription normalizes a free-text project description for display:
// emoji shortcodes and non-ASCII characters are removed, quotes and angle
// brackets are dropped, a trailing period is enforced and the result is
// shortened to maxLength with a ".." placeholder.
func ProcessDescription(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	text = strings.TrimSpace(emojiShortRE.ReplaceAllString(text, ""))
	text = strings.TrimSpace(RemoveNonASCII(text))
	text = strings.NewReplacer(`"`, "", "<", "", ">", "").Replace(text)
	if text == "" {
		return ""
	}
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return CleanWhitespace(Shorten(text, maxLength, ".."))
}

var mdLinkRE = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// Anchor turns a heading title into the fragment GitHub generates for it:
// lowercase, spaces to hyphens, everything else outside [a-zA-Z0-9-] removed.
func Anchor(title string) string {
	return mdLinkRE.ReplaceAllString(strings.ReplaceAll(strings.ToLower(title), " ", "-"), "")
}
