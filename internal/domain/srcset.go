package domain

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

const srcsetWhitespace = " \t\n\r\f"

// Srcset is a responsive image candidate set keyed by descriptor, so a
// candidate with an already known width replaces the previous one.
type Srcset struct {
	urls map[string]string
}

// ParseSrcset parses a srcset attribute value. Candidates without exactly one
// descriptor are skipped; an empty or malformed value yields an empty set.
func ParseSrcset(value string) Srcset {
	set := Srcset{urls: make(map[string]string)}

	for rest := value; ; {
		rest = strings.TrimLeft(rest, srcsetWhitespace+",")
		if rest == "" {
			break
		}

		var candidateURL, descriptor string

		if i := strings.IndexAny(rest, srcsetWhitespace); i >= 0 {
			candidateURL, rest = rest[:i], rest[i:]
		} else {
			candidateURL, rest = rest, ""
		}

		if strings.HasSuffix(candidateURL, ",") {
			// URL directly followed by a comma has no descriptor.
			continue
		}

		descriptor, rest, _ = strings.Cut(rest, ",")
		descriptor = strings.TrimSpace(descriptor)

		if descriptor == "" || strings.ContainsAny(descriptor, srcsetWhitespace) {
			continue
		}

		set.urls[descriptor] = candidateURL
	}

	return set
}

// Set adds or replaces the candidate for descriptor.
func (s *Srcset) Set(descriptor, candidateURL string) {
	if s.urls == nil {
		s.urls = make(map[string]string)
	}

	s.urls[descriptor] = candidateURL
}

// URL returns the candidate URL for descriptor.
func (s Srcset) URL(descriptor string) (string, bool) {
	u, ok := s.urls[descriptor]

	return u, ok
}

func (s Srcset) Len() int {
	return len(s.urls)
}

// Descriptors returns the descriptors largest width first. Width descriptors
// sort numerically; any other descriptor follows them in reverse lexical order.
func (s Srcset) Descriptors() []string {
	descriptors := make([]string, 0, len(s.urls))
	for d := range s.urls {
		descriptors = append(descriptors, d)
	}

	slices.SortFunc(descriptors, func(a, b string) int {
		wa, okA := descriptorWidth(a)
		wb, okB := descriptorWidth(b)

		switch {
		case okA && okB && wa != wb:
			return cmp.Compare(wb, wa)
		case okA != okB:
			if okA {
				return -1
			}

			return 1
		default:
			return strings.Compare(b, a)
		}
	})

	return descriptors
}

// String renders the set as a srcset attribute value.
func (s Srcset) String() string {
	descriptors := s.Descriptors()
	candidates := make([]string, 0, len(descriptors))

	for _, d := range descriptors {
		candidates = append(candidates, s.urls[d]+" "+d)
	}

	return strings.Join(candidates, ", ")
}

func descriptorWidth(descriptor string) (int, bool) {
	digits, ok := strings.CutSuffix(descriptor, "w")
	if !ok {
		return 0, false
	}

	w, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}

	return w, true
}
