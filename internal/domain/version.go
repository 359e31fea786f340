package domain

import (
	"strconv"
	"strings"
)

// CompareVersions compares dotted version strings such as "1.2.10" and
// "v1.3". Numeric parts compare numerically, other parts lexically, and
// missing parts count as zero. Returns -1, 0 or 1.
func CompareVersions(v1, v2 string) int {
	a := versionParts(v1)
	b := versionParts(v2)

	for i := 0; i < len(a) || i < len(b); i++ {
		pa, pb := "0", "0"
		if i < len(a) {
			pa = a[i]
		}
		if i < len(b) {
			pb = b[i]
		}

		na, errA := strconv.Atoi(pa)
		nb, errB := strconv.Atoi(pb)
		switch {
		case errA == nil && errB == nil:
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
		default:
			if c := strings.Compare(pa, pb); c != 0 {
				return c
			}
		}
	}
	return 0
}

// IsNewerVersion reports whether newVersion is later than currentVersion
func IsNewerVersion(currentVersion, newVersion string) bool {
	return CompareVersions(currentVersion, newVersion) < 0
}

func versionParts(v string) []string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	if v == "" {
		return nil
	}
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-' || r == '+'
	})
}
