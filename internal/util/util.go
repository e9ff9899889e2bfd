package util

import "strconv"

// Noun picks the singular or plural form for number.
func Noun(number int, one, many string) string {
	if number == 1 || number == -1 {
		return one
	}
	return many
}

// Count formats number followed by the matching noun form, e.g. "1 game".
func Count(number int, one, many string) string {
	return strconv.Itoa(number) + " " + Noun(number, one, many)
}
