package domain

import "fmt"

// LinkMethod determines how resolved patch files are placed in the game's data directory
type LinkMethod int

const (
	LinkSymlink  LinkMethod = iota // Symlink (space efficient, needs a loader that follows links)
	LinkHardlink                   // Hardlink (same filesystem only)
	LinkCopy                       // Copy (maximum compatibility)
)

// DefaultLinkMethod is used when the configuration does not name one.
const DefaultLinkMethod = LinkCopy

func (m LinkMethod) String() string {
	switch m {
	case LinkSymlink:
		return "symlink"
	case LinkHardlink:
		return "hardlink"
	case LinkCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// ParseLinkMethod converts a string to LinkMethod. An empty string yields DefaultLinkMethod.
func ParseLinkMethod(s string) (LinkMethod, error) {
	switch s {
	case "":
		return DefaultLinkMethod, nil
	case "symlink":
		return LinkSymlink, nil
	case "hardlink":
		return LinkHardlink, nil
	case "copy":
		return LinkCopy, nil
	default:
		return DefaultLinkMethod, fmt.Errorf("invalid link method %q (use: symlink, hardlink, or copy)", s)
	}
}
