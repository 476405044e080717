package groups

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrRangeText is returned when a group's text is not one or two integers
// separated by "-".
var ErrRangeText = errors.New("groups: malformed range text")

// ParseRange returns the first and last chapter numbers of a range label.
// "12 - 15" yields (12, 15) and "7" yields (7, 7). The first number is taken
// before the first "-" and the last after the last "-".
func ParseRange(text string) (first, last int, err error) {
	tokens := strings.Split(text, "-")

	first, err = parseChapter(text, tokens[0])
	if err != nil {
		return 0, 0, err
	}
	last, err = parseChapter(text, tokens[len(tokens)-1])
	if err != nil {
		return 0, 0, err
	}
	return first, last, nil
}

// FirstChapter returns the first chapter number of a range label.
func FirstChapter(text string) (int, error) {
	first, _, err := ParseRange(text)
	return first, err
}

// LastChapter returns the last chapter number of a range label.
func LastChapter(text string) (int, error) {
	_, last, err := ParseRange(text)
	return last, err
}

// Total returns the number of chapters a range label spans.
func Total(text string) (int, error) {
	first, last, err := ParseRange(text)
	if err != nil {
		return 0, err
	}
	return last - first + 1, nil
}

func parseChapter(text, token string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrRangeText, text)
	}
	return n, nil
}
