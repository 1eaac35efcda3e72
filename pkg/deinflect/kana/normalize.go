// Package kana prepares user input for deinflection.
package kana

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize widens half-width katakana, narrows full-width ASCII and
// recomposes voiced marks, so ｷｶﾚﾏｼﾀ becomes キカレマシタ.
func Normalize(s string) string {
	// Chains keep buffers, so each call gets its own.
	out, _, err := transform.String(transform.Chain(width.Fold, norm.NFC), s)
	if err != nil {
		return s
	}
	return out
}

const (
	katakanaFirst = 'ァ'
	katakanaLast  = 'ヶ'
	kanaOffset    = 'ァ' - 'ぁ'
)

var toHiragana = runes.Map(func(r rune) rune {
	if r >= katakanaFirst && r <= katakanaLast {
		return r - kanaOffset
	}
	return r
})

// ToHiragana maps katakana to the matching hiragana. Other runes, including
// the prolonged sound mark ー, pass through.
func ToHiragana(s string) string {
	out, _, err := transform.String(toHiragana, s)
	if err != nil {
		return s
	}
	return out
}
