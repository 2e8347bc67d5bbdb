// Package features turns project label strings into per-category feature lists.
//
// A label string is a delimited list of tokens such as
// "programming:Python, tools:ANTs, bhg:boston_usa_1". Tokenizing and
// classifying are separate steps so either can be swapped independently.
package features

import (
	"strings"
)

// Features maps a category name to the raw values a project declared for it,
// in label order with duplicates kept. Every configured category is present.
type Features map[string][]string

// Get returns the values declared for category.
func (f Features) Get(category string) []string {
	return f[category]
}

// Count returns the number of values across all categories.
func (f Features) Count() int {
	n := 0
	for _, v := range f {
		n += len(v)
	}
	return n
}

// Max returns the lexicographically greatest value of category and false when
// the category is empty.
func (f Features) Max(category string) (string, bool) {
	values := f[category]
	if len(values) == 0 {
		return "", false
	}
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best, true
}

// Tokenizer splits a label string into raw tokens.
type Tokenizer interface {
	Tokens(label string) []string
}

// Classifier assigns a token to a category and strips the category marker.
// ok is false for tokens outside every category.
type Classifier interface {
	Classify(token string) (category, value string, ok bool)
}

// DelimitedTokenizer splits on a fixed delimiter.
type DelimitedTokenizer struct {
	Delimiter string
}

// Tokens implements Tokenizer.
func (t DelimitedTokenizer) Tokens(label string) []string {
	if label == "" {
		return nil
	}
	return strings.Split(label, t.Delimiter)
}

// PrefixClassifier matches tokens containing "<category><separator>".
// Categories are tried in order and the first match wins.
type PrefixClassifier struct {
	categories []string
	prefixes   []string
}

// NewPrefixClassifier builds a classifier for categories joined to their
// values by separator, e.g. "tools" + ":".
func NewPrefixClassifier(categories []string, separator string) *PrefixClassifier {
	c := &PrefixClassifier{
		categories: append([]string(nil), categories...),
		prefixes:   make([]string, len(categories)),
	}
	for i, name := range categories {
		c.prefixes[i] = name + separator
	}
	return c
}

// Classify implements Classifier.
func (c *PrefixClassifier) Classify(token string) (string, string, bool) {
	for i, prefix := range c.prefixes {
		if strings.Contains(token, prefix) {
			return c.categories[i], strings.TrimSpace(strings.ReplaceAll(token, prefix, "")), true
		}
	}
	return "", "", false
}
