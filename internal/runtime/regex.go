// Package runtime holds the interpreter's boundary services: the regex
// engine and the output streams used by print redirection.
package runtime

import (
	"github.com/coregx/coregex"
)

// AWK regexes let . match a newline.
const dotallPrefix = "(?s)"

// Regex is a compiled AWK extended regular expression.
type Regex struct {
	pattern string
	re      *coregex.Regexp
}

// Compile compiles pattern. With posix set the match chosen is the
// leftmost-longest one, as POSIX EREs require; otherwise it is the
// leftmost-first one.
func Compile(pattern string, posix bool) (*Regex, error) {
	re, err := coregex.Compile(dotallPrefix + pattern)
	if err != nil {
		return nil, err
	}
	if posix {
		re.Longest()
	}
	return &Regex{pattern: pattern, re: re}, nil
}

// Pattern returns the source text of the regex.
func (r *Regex) Pattern() string {
	return r.pattern
}

// MatchString reports whether s contains a match.
func (r *Regex) MatchString(s string) bool {
	return r.re.MatchString(s)
}

// FindStringIndex returns the bounds of the first match, or nil.
func (r *Regex) FindStringIndex(s string) []int {
	return r.re.FindStringIndex(s)
}

// FindAllStringIndex returns the bounds of up to n successive matches;
// n < 0 means all of them.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.re.FindAllStringIndex(s, n)
}

// Split slices s around the matches of r.
func (r *Regex) Split(s string, n int) []string {
	return r.re.Split(s, n)
}

// RegexCache holds the compiled forms of dynamic regexes, the ones built
// from strings at run time. The oldest entry is evicted first once the
// cache is full.
type RegexCache struct {
	entries map[string]*Regex
	order   []string
	maxSize int
	posix   bool
}

// NewRegexCache returns a cache holding up to maxSize regexes compiled
// with the given matching mode.
func NewRegexCache(maxSize int, posix bool) *RegexCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &RegexCache{
		entries: make(map[string]*Regex, maxSize),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		posix:   posix,
	}
}

// Get returns the compiled form of pattern, compiling it on a miss.
func (c *RegexCache) Get(pattern string) (*Regex, error) {
	if re, ok := c.entries[pattern]; ok {
		return re, nil
	}
	re, err := Compile(pattern, c.posix)
	if err != nil {
		return nil, err
	}
	if len(c.order) >= c.maxSize {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[pattern] = re
	c.order = append(c.order, pattern)
	return re, nil
}

// POSIX reports whether the cache compiles leftmost-longest regexes.
func (c *RegexCache) POSIX() bool {
	return c.posix
}
