// Package foodname holds the pure string normalization used to key, compare
// and canonicalize food names across scripts (kanji, kana, romaji).
package foodname

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Replacement is one literal rewrite rule of the canonicalization table
type Replacement struct {
	From string
	To   string
}

// Replacements is applied top to bottom. Later rules see the output of
// earlier ones, so the order matters: "ごはん" is rewritten before "白ごはん"
// is considered, leaving "白ご飯".
var Replacements = []Replacement{
	// rice
	{"ライス", "ご飯"},
	{"ごはん", "ご飯"},
	{"ゴハン", "ご飯"},
	{"白ごはん", "ご飯"},
	{"白飯", "ご飯"},
	{"はくはん", "ご飯"},
	{"ハクハン", "ご飯"},
	{"御飯", "ご飯"},
	{"めし", "ご飯"},
	{"メシ", "ご飯"},
	// miso soup
	{"味噌汁", "みそ汁"},
	{"みそスープ", "みそ汁"},
	{"味噌スープ", "みそ汁"},
	{"ミソ汁", "みそ汁"},
	{"ミソシル", "みそ汁"},
	{"みそしる", "みそ汁"},
	// yakitori
	{"焼鳥", "焼き鳥"},
	{"やきとり", "焼き鳥"},
	{"ヤキトリ", "焼き鳥"},
	{"やき鳥", "焼き鳥"},
	{"焼きとり", "焼き鳥"},
	// chicken
	{"チキンステーキ", "鶏肉ステーキ"},
	{"とりにくステーキ", "鶏肉ステーキ"},
	{"鶏むね肉", "鶏胸肉"},
	{"鶏胸", "鶏胸肉"},
	{"胸肉", "鶏胸肉"},
	{"むね肉", "鶏胸肉"},
	{"ムネ肉", "鶏胸肉"},
	{"むねにく", "鶏胸肉"},
	{"ムネニク", "鶏胸肉"},
	{"鶏もも", "鶏もも肉"},
	{"もも肉", "鶏もも肉"},
	{"モモ肉", "鶏もも肉"},
	{"ももにく", "鶏もも肉"},
	{"モモニク", "鶏もも肉"},
	{"腿肉", "鶏もも肉"},
	{"ささみ", "鶏ささみ"},
	{"ササミ", "鶏ささみ"},
	{"笹身", "鶏ささみ"},
	// minced meat
	{"挽肉", "ひき肉"},
	{"ミンチ", "ひき肉"},
	// tea
	{"日本茶", "緑茶"},
	{"にほんちゃ", "緑茶"},
	{"ニホンチャ", "緑茶"},
	{"グリーンティー", "緑茶"},
	{"緑ちゃ", "緑茶"},
	{"禄茶", "緑茶"},
	{"りょくちゃ", "緑茶"},
	{"リョクチャ", "緑茶"},
	{"お茶", "茶"},
	{"おちゃ", "茶"},
	{"オチャ", "茶"},
	{"御茶", "茶"},
}

// maxPasses bounds ApplyReplacements; guarded rules settle in one or two passes.
const maxPasses = 8

// apply rewrites every occurrence of r.From that is not already part of an
// occurrence of r.To, so "ご飯" survives the "飯"-style rules untouched.
func (r Replacement) apply(s string) string {
	if r.From == "" || !strings.Contains(s, r.From) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(r.To))
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], r.To):
			b.WriteString(r.To)
			i += len(r.To)
		case strings.HasPrefix(s[i:], r.From):
			b.WriteString(r.To)
			i += len(r.From)
		default:
			_, n := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+n])
			i += n
		}
	}
	return b.String()
}

// ApplyReplacements runs the ordered replacement chain until it is stable
func ApplyReplacements(s string) string {
	for pass := 0; pass < maxPasses; pass++ {
		next := s
		for _, r := range Replacements {
			next = r.apply(next)
		}
		if next == s {
			return s
		}
		s = next
	}
	return s
}

// NFKC applies Unicode compatibility normalization (full-width to ASCII,
// half-width katakana to full-width).
func NFKC(s string) string {
	return norm.NFKC.String(s)
}

// NormalizeKey is the fast dedup/match key: NFKC, lowercase, no whitespace
func NormalizeKey(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(NFKC(s))
	return StripSpaces(s)
}

// Canonicalize maps a user-entered food name onto its preferred surface form
func Canonicalize(s string) string {
	if s == "" {
		return ""
	}
	s = NFKC(strings.TrimSpace(s))
	s = strings.Map(dropSeparator, s)
	s = ApplyReplacements(s)
	return s
}

// AliasKey is the aggressive lookup key used against the alias table
func AliasKey(s string) string {
	s = NFKC(Canonicalize(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

// StripSpaces removes all whitespace, including the ideographic space
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// StripBullets removes middle dots used as word separators in Japanese names
func StripBullets(s string) string {
	return strings.Map(func(r rune) rune {
		if isBullet(r) {
			return -1
		}
		return r
	}, s)
}

func isBullet(r rune) bool {
	switch r {
	case '・', '･', '·', '•':
		return true
	}
	return false
}

func isDash(r rune) bool {
	switch r {
	case '-', '‐', '‑', '‒', '–', '—', '―', '－':
		return true
	}
	return false
}

// dropSeparator is a strings.Map callback removing whitespace, bullets,
// dashes, dots and underscores. The katakana long vowel mark is kept.
func dropSeparator(r rune) rune {
	if unicode.IsSpace(r) || isBullet(r) || isDash(r) || r == '_' || r == '.' {
		return -1
	}
	return r
}
