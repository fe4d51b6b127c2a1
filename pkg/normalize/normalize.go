// Package normalize cleans the raw strings the systems of record
// deliver: enterprise-system titles in shouting caps, phone numbers in
// a half dozen layouts, emails with stray characters. Cleaning is
// deterministic so repeated runs produce identical values.
package normalize

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed abbreviations.yaml
var abbreviationsYAML []byte

// rule is one ordered pattern replacement from the embedded table.
type rule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

var (
	titleCaser = cases.Title(language.AmericanEnglish)
	rules      []compiledRule
)

type compiledRule struct {
	re      *regexp.Regexp
	replace string
}

func init() {
	var raw []rule
	if err := yaml.Unmarshal(abbreviationsYAML, &raw); err != nil {
		panic(fmt.Sprintf("normalize: bad abbreviations table: %v", err))
	}
	for _, r := range raw {
		rules = append(rules, compiledRule{
			re:      regexp.MustCompile(r.Pattern),
			replace: r.Replace,
		})
	}
}

// Title rewrites an all-caps or all-lower title into readable title
// case, then restores the abbreviations the caser mangles (UF, NIH,
// III and the rest) by running the ordered replacement table. Rules
// apply in table order so later rules may assume earlier fixes.
func Title(s string) string {
	s = titleCaser.String(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.replace)
	}
	return s
}

// CommaSpace inserts the missing space after commas jammed against the
// next word.
func CommaSpace(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		b.WriteRune(r)
		if r == ',' && i+1 < len(runes) && runes[i+1] != ' ' {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// Collapse trims the string and folds runs of whitespace to single
// spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
