// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold normalises text for matching.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC so "å" typed as a + ring matches the precomposed letter.
// 2. Applies Unicode case folding ("AFTENPOSTEN" and "aftenposten" fold alike).
//
// Letters such as æ, ø and å are kept; they are distinct letters in Norwegian, not accented vowels.
func fold(s string) string {
	// cases.Caser is stateful, so each call builds its own chain.
	t := transform.Chain(norm.NFC, cases.Fold())
	result, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return result
}

// trigrams returns the distinct three-rune windows of text. Shorter text has none.
func trigrams(text string) []string {
	if utf8.RuneCountInString(text) < 3 {
		return nil
	}
	runes := []rune(text)
	seen := make(map[string]struct{}, len(runes)-2)
	grams := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		gram := string(runes[i : i+3])
		if _, ok := seen[gram]; ok {
			continue
		}
		seen[gram] = struct{}{}
		grams = append(grams, gram)
	}
	return grams
}
