package scroll

import "strings"

// Matcher is the predicate describing which on-screen elements count as
// scrollable panels for arbitration. The renderer supplies the hovered
// element's class attribute with each pointer sample.
type Matcher interface {
	Matches(classAttr string) bool
}

// ClassMatcher matches elements carrying any of a set of CSS class names.
type ClassMatcher struct {
	classes map[string]bool
}

// NewClassMatcher builds a ClassMatcher from class names. Leading dots are
// tolerated so selector-style input (".node-panel") works too.
func NewClassMatcher(classes ...string) *ClassMatcher {
	m := &ClassMatcher{classes: make(map[string]bool, len(classes))}
	for _, c := range classes {
		m.classes[strings.TrimPrefix(c, ".")] = true
	}
	return m
}

// Matches reports whether any class token in classAttr is a panel class.
func (m *ClassMatcher) Matches(classAttr string) bool {
	for _, token := range strings.Fields(classAttr) {
		if m.classes[token] {
			return true
		}
	}
	return false
}
