package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for failure codes.
// data provides the parameters embedded in the message (for example,
// "list", "expected" or "actual").
type Translator interface {
	Message(code string, data map[string]string) string
}

var templates = map[string]map[string]string{
	"en": {
		"structural":         "illegal operation on {node}: {reason}",
		"duplicate_entry":    "duplicate entry with name {node}",
		"wrong_cardinality":  "{node} is a {kind} and must be added with {api}",
		"ascend_past_root":   "cannot traverse to the parent of the root node {node}",
		"bench_spent":        "work bench is no longer usable after a previous failure: {cause}",
		"schema_lookup":      "schema node {node} not found under {parent}",
		"too_few_keys":       "too few key parameters in {list}: expected {expected}; actual {actual}",
		"too_many_keys":      "too many key parameters in {list}: expected {expected}; actual {actual}",
		"missing_keys":       "missing some of the keys of {list}",
		"key_not_unique":     "some of the key elements are not unique in {list}",
		"too_many_instances": "too many instances of {list}: expected maximum {max} instances",
		"duplicate_value":    "duplicate entry {value} in leaf-list {leaflist}",
		"out_of_range":       "value {value} of {node} is not in range {range}",
		"invalid_width":      "value {value} of {node} is outside the bounds of {type}",
		"invalid_value":      "value {value} of {node} is not a valid {type}",
		"invalid_facet":      "schema facet {facet} of {node} is invalid: {reason}",
		"duplicate_member":   "member {node} appears more than once",
		"max_depth_exceeded": "document nesting exceeds maximum depth {max}",
		"unexpected_token":   "unexpected {token} at {node}",
		"unknown_operation":  "unknown operation {value} on {node}",
	},
	"ja": {
		"duplicate_entry":    "{node} という名前のエントリが重複しています",
		"schema_lookup":      "{parent} の下にスキーマノード {node} が見つかりません",
		"too_few_keys":       "{list} のキーパラメータが不足しています: 期待値 {expected}; 実際 {actual}",
		"too_many_keys":      "{list} のキーパラメータが多すぎます: 期待値 {expected}; 実際 {actual}",
		"missing_keys":       "{list} のキーの一部が不足しています",
		"key_not_unique":     "{list} のキー要素が一意ではありません",
		"too_many_instances": "{list} のインスタンスが多すぎます: 最大 {max}",
		"duplicate_value":    "リーフリスト {leaflist} のエントリ {value} が重複しています",
		"out_of_range":       "{node} の値 {value} は範囲 {range} 外です",
		"invalid_value":      "{node} の値 {value} は {type} として不正です",
		"invalid_facet":      "{node} のスキーマ制約 {facet} が不正です: {reason}",
	},
}

// dictTranslator is the built-in dictionary-based Translator. Codes without a
// localized template fall back to English.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := templates[t.lang][code]
	if !ok {
		tmpl, ok = templates["en"][code]
	}
	if !ok {
		return code
	}
	return render(tmpl, data)
}

func render(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

var (
	supported = []string{"en", "ja"}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Japanese})
)

// SetLanguage switches the built-in Translator language. lang is a BCP 47 tag
// or Accept-Language list ("ja", "ja-JP", "fr, ja;q=0.8"); anything that does
// not match Japanese selects English.
func SetLanguage(lang string) {
	_, i := language.MatchStrings(matcher, lang)
	lang = supported[i]
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T returns the message for code rendered with data.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
