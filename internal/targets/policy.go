package targets

import "strings"

// Policy decides which files are eligible.
type Policy struct {
	// AcceptedSuffixes are matched against the file suffix.
	AcceptedSuffixes []string
	// BlacklistedStems are compared exactly against the file stem.
	BlacklistedStems []string
	// Recursive includes every descendant of a directory, not just its
	// immediate children.
	Recursive bool
	// ExactSuffix requires the suffix to equal an accepted entry. When
	// false an entry matches if it appears anywhere within the suffix, so
	// ".ex" accepts ".exe".
	ExactSuffix bool
}

// SuffixAccepted reports whether suffix passes the policy.
func (p Policy) SuffixAccepted(suffix string) bool {
	for _, accepted := range p.AcceptedSuffixes {
		if accepted == "" {
			continue
		}
		if p.ExactSuffix {
			if strings.EqualFold(suffix, accepted) {
				return true
			}
		} else if strings.Contains(suffix, accepted) {
			return true
		}
	}
	return false
}

// Blacklisted reports whether stem is excluded.
func (p Policy) Blacklisted(stem string) bool {
	for _, s := range p.BlacklistedStems {
		if s == stem {
			return true
		}
	}
	return false
}

// Accepts reports whether f passes both filters.
func (p Policy) Accepts(f File) bool {
	return !p.Blacklisted(f.Stem) && p.SuffixAccepted(f.Suffix)
}
