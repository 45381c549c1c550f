package assets

import "fmt"

// FallbackDescription produces descriptive text for an entity with no
// stored description, reporting whether a hand-authored rule supplied it.
// Rules are tried in order and the first match wins; otherwise a
// templated sentence is generated from the name and, when known, the
// parent province. The result is never empty. Two unrelated entities
// matching the same pattern get the same prose; that is a documented
// property of the rule table, not something this function papers over.
func FallbackDescription(name, province string, rules []TextRule) (string, bool) {
	for _, rule := range rules {
		if rule.re != nil && rule.re.MatchString(name) {
			return rule.Text, true
		}
	}
	if province != "" {
		return fmt.Sprintf("%s is a destination in %s, Sri Lanka. Add it to your itinerary to explore the surrounding area.", name, province), false
	}
	return fmt.Sprintf("%s is a destination in Sri Lanka. Add it to your itinerary to explore the surrounding area.", name), false
}
