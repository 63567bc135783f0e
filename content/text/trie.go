package text

import (
	"fmt"
	"unicode"
)

// trie stores hyphenation patterns keyed by their letters. A node where a
// pattern ends holds its inter-letter levels: levels[i] is the value before
// letter i, the final entry the value after the last letter.
type trie struct {
	children map[rune]*trie
	levels   []int
}

func newTrie() *trie {
	return &trie{children: make(map[rune]*trie)}
}

// addPattern parses a TeX style pattern such as ".hy3p" and stores it.
func (p *trie) addPattern(s string) error {
	var (
		letters []rune
		levels  = []int{0}
	)
	for _, sym := range s {
		if unicode.IsDigit(sym) {
			if levels[len(levels)-1] != 0 {
				return fmt.Errorf("pattern %q: adjacent digits", s)
			}
			levels[len(levels)-1] = int(sym - '0')
			continue
		}
		letters = append(letters, unicode.ToLower(sym))
		levels = append(levels, 0)
	}
	if len(letters) == 0 {
		return fmt.Errorf("pattern %q: no letters", s)
	}

	node := p
	for _, r := range letters {
		child, ok := node.children[r]
		if !ok {
			child = newTrie()
			node.children[r] = child
		}
		node = child
	}
	node.levels = levels
	return nil
}

// size returns the number of nodes below p.
func (p *trie) size() int {
	n := 0
	for _, child := range p.children {
		n += 1 + child.size()
	}
	return n
}

// contains reports whether a pattern with exactly these letters is stored.
func (p *trie) contains(letters string) bool {
	node := p
	for _, r := range letters {
		child, ok := node.children[r]
		if !ok {
			return false
		}
		node = child
	}
	return node.levels != nil
}

// match calls fn for every stored pattern that is a prefix of word[from:].
func (p *trie) match(word []rune, from int, fn func(levels []int)) {
	node := p
	for _, r := range word[from:] {
		child, ok := node.children[r]
		if !ok {
			return
		}
		if child.levels != nil {
			fn(child.levels)
		}
		node = child
	}
}
