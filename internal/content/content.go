// Package content holds the bilingual static copy served to clients.
package content

import "github.com/techvote/techvote/internal/models"

// Text is an inline English/Bangla pair.
type Text struct {
	EN string `json:"en"`
	BN string `json:"bn"`
}

// T builds a Text.
func T(en, bn string) Text {
	return Text{EN: en, BN: bn}
}

// Pick returns the copy for lang, defaulting to English.
func (t Text) Pick(lang models.Language) string {
	if lang == models.LanguageBangla && t.BN != "" {
		return t.BN
	}
	return t.EN
}

// Option is a selectable value with a stable key and a bilingual label.
type Option struct {
	Key   string `json:"key"`
	Label Text   `json:"label"`
}

// LocalOption is an Option rendered in one language.
type LocalOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Localize renders options in lang.
func Localize(opts []Option, lang models.Language) []LocalOption {
	out := make([]LocalOption, len(opts))
	for i, o := range opts {
		out[i] = LocalOption{Key: o.Key, Label: o.Label.Pick(lang)}
	}
	return out
}

// Find returns the option whose key or label (in either language) equals s.
func Find(opts []Option, s string) (Option, bool) {
	for _, o := range opts {
		if o.Key == s || o.Label.EN == s || o.Label.BN == s {
			return o, true
		}
	}
	return Option{}, false
}
