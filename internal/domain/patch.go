package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// HashLength is the length of the hash identity prefix on every patch file name.
const HashLength = 16

// PatchMarker appears in every patch file name, between the hash and the index.
const PatchMarker = ".patch_"

// PatchRole identifies which member of a triplet a patch file is
type PatchRole int

const (
	RoleMain   PatchRole = iota // <hash>.patch_<N>
	RoleStream                  // <hash>.patch_<N>.stream
	RoleGPU                     // <hash>.patch_<N>.gpu_resources
)

// Suffixes ordered longest first so the longest matching suffix wins.
var roleSuffixes = []struct {
	role   PatchRole
	suffix string
}{
	{RoleGPU, ".gpu_resources"},
	{RoleStream, ".stream"},
}

// Suffix returns the file name suffix that follows the patch index.
func (r PatchRole) Suffix() string {
	switch r {
	case RoleStream:
		return ".stream"
	case RoleGPU:
		return ".gpu_resources"
	default:
		return ""
	}
}

func (r PatchRole) String() string {
	switch r {
	case RoleMain:
		return "main"
	case RoleStream:
		return "stream"
	case RoleGPU:
		return "gpu_resources"
	default:
		return "unknown"
	}
}

// PatchFile is a parsed patch file name
type PatchFile struct {
	Hash  string
	Index int
	Role  PatchRole
}

// IsPatchName reports whether name looks like a patch file and should be parsed.
func IsPatchName(name string) bool {
	return strings.Contains(name, PatchMarker)
}

// ParsePatchName splits a patch file name into hash identity, index and role.
func ParsePatchName(name string) (PatchFile, error) {
	pos := strings.Index(name, PatchMarker)
	if pos != HashLength {
		return PatchFile{}, fmt.Errorf("%w: %q: expected %d-character hash before %q", ErrPatchName, name, HashLength, PatchMarker)
	}

	pf := PatchFile{Hash: name[:HashLength], Role: RoleMain}
	rest := name[pos+len(PatchMarker):]
	for _, rs := range roleSuffixes {
		if strings.HasSuffix(rest, rs.suffix) {
			pf.Role = rs.role
			rest = strings.TrimSuffix(rest, rs.suffix)
			break
		}
	}

	if rest == "" || strings.TrimLeft(rest, "0123456789") != "" {
		return PatchFile{}, fmt.Errorf("%w: %q: invalid patch index", ErrPatchName, name)
	}
	index, err := strconv.Atoi(rest)
	if err != nil {
		return PatchFile{}, fmt.Errorf("%w: %q: %v", ErrPatchName, name, err)
	}
	pf.Index = index

	return pf, nil
}

// FileName builds the canonical file name for the patch file.
func (p PatchFile) FileName() string {
	return fmt.Sprintf("%s%s%d%s", p.Hash, PatchMarker, p.Index, p.Role.Suffix())
}

// Triplet groups the main, stream and GPU-resources files that share a hash
// identity and index within one contribution directory. Any slot may be empty.
type Triplet struct {
	Hash   string
	Index  int
	Main   string // Absolute paths
	Stream string
	GPU    string

	ModGUID uuid.UUID // Mod that contributed the files
	Dir     string    // Contribution directory the files were found in
}

// Path returns the file in the given slot, or "" if the slot is empty.
func (t Triplet) Path(role PatchRole) string {
	switch role {
	case RoleStream:
		return t.Stream
	case RoleGPU:
		return t.GPU
	default:
		return t.Main
	}
}

// Set fills the slot for role with path.
func (t *Triplet) Set(role PatchRole, path string) {
	switch role {
	case RoleStream:
		t.Stream = path
	case RoleGPU:
		t.GPU = path
	default:
		t.Main = path
	}
}
