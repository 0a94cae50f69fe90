package internal

import "fmt"

// SelectPlurality returns the singular or plural form of a word based on the
// count.
func SelectPlurality(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Count formats a count followed by the matching form of a noun, as in
// "1 package" or "3 packages".
func Count(count int, singular, plural string) string {
	return fmt.Sprintf("%d %s", count, SelectPlurality(count, singular, plural))
}
