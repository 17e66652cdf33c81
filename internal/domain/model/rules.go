package model

import (
	"fmt"
	"strings"
)

// DefaultPrefix は既定のパスプレフィックスです
const DefaultPrefix = "/app"

// NormalizePrefix はプレフィックスを先頭スラッシュあり・末尾スラッシュなしに整えます
func NormalizePrefix(prefix string) (string, error) {
	p := strings.Trim(strings.TrimSpace(prefix), "/")
	if p == "" {
		return "", fmt.Errorf("プレフィックスが空です")
	}
	if strings.ContainsAny(p, "\"'<> ") {
		return "", fmt.Errorf("プレフィックスに不正な文字が含まれています: %q", prefix)
	}
	return "/" + p, nil
}

// DefaultRules は指定プレフィックス向けの既定の置換規則を返します。
// prefix は NormalizePrefix 済みであることを前提とします。
func DefaultRules(prefix string) []Rule {
	return []Rule{
		{From: `src="/_expo/`, To: `src="` + prefix + `/_expo/`},
		{From: `href="/_expo/`, To: `href="` + prefix + `/_expo/`},
		{From: `href="/favicon`, To: `href="` + prefix + `/favicon`},
	}
}

// ValidateRules は置換規則が冪等に適用できることを確認します。
// 置換後の文字列がいずれかの規則の検索文字列を含む場合と、
// 検索文字列の前後に1文字加えた入力で再適用の結果が変わる場合を拒否します。
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("置換規則が指定されていません")
	}
	for i, r := range rules {
		if r.From == "" {
			return fmt.Errorf("規則 %d: 検索文字列が空です", i)
		}
	}
	for i, r := range rules {
		for j, other := range rules {
			if strings.Contains(r.To, other.From) {
				return fmt.Errorf("規則 %d: 置換後の文字列 %q が規則 %d の検索文字列 %q を含むため冪等になりません", i, r.To, j, other.From)
			}
		}
	}
	for _, sample := range idempotenceSamples(rules) {
		once := applyRules(rules, sample)
		if twice := applyRules(rules, once); twice != once {
			return fmt.Errorf("入力 %q で再適用の結果が変わるため冪等になりません (%q -> %q)", sample, once, twice)
		}
	}
	return nil
}

// idempotenceSamples は各検索文字列と、その前後に検索文字列中の1文字を加えた入力を返します
func idempotenceSamples(rules []Rule) []string {
	seen := map[byte]bool{}
	var chars []byte
	for _, r := range rules {
		for k := 0; k < len(r.From); k++ {
			if !seen[r.From[k]] {
				seen[r.From[k]] = true
				chars = append(chars, r.From[k])
			}
		}
	}

	var samples []string
	for _, r := range rules {
		samples = append(samples, r.From, r.From+r.From)
		for _, c := range chars {
			ch := string([]byte{c})
			samples = append(samples, ch+r.From, r.From+ch)
		}
	}
	return samples
}

func applyRules(rules []Rule, s string) string {
	for _, r := range rules {
		s = strings.ReplaceAll(s, r.From, r.To)
	}
	return s
}
