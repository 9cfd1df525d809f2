package validate

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^[0-9]{10,15}$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N} _'&.,-]{1,100}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// Email trims and lower-cases s, then checks its shape.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Text trims s and checks its length in runes lies within [min, max].
func Text(s string, min, max int) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return s, n >= min && n <= max
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (user/listing/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// URI accepts absolute http(s) URLs.
func URI(s string) (string, bool) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	return s, u.Scheme == "http" || u.Scheme == "https"
}

// Password enforces a length window; bcrypt ignores bytes past 72.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72
}

func Quantity(n int) bool { return n >= 1 && n <= 1000 }

func Rating(n int) bool { return n >= 1 && n <= 5 }
