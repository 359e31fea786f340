package core

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"hd2mm/internal/manifest"
)

// nexusPattern matches NexusMods download names: Name-ModID-Version.ext
// Example: Skins-1234-1-2.zip -> groups: Skins, 1234, 1-2
// The mod ID has 2+ digits to tell it apart from version components.
var nexusPattern = regexp.MustCompile(`^(.+?)-(\d{2,})-([^.]+)\.[a-zA-Z0-9]+$`)

// timestampSuffix matches trailing upload timestamps (10+ digits)
var timestampSuffix = regexp.MustCompile(`-\d{10,}$`)

// ParseNexusFileName extracts the NexusMods mod ID and version from a
// downloaded archive name like "Skins-1234-1-2-1703618069.zip".
// Returns nil if the name does not follow that pattern.
func ParseNexusFileName(filename string) *manifest.NexusData {
	matches := nexusPattern.FindStringSubmatch(filepath.Base(filename))
	if matches == nil {
		return nil
	}

	id, err := strconv.ParseUint(matches[2], 10, 32)
	if err != nil {
		return nil
	}

	version := timestampSuffix.ReplaceAllString(matches[3], "")
	version = strings.ReplaceAll(version, "-", ".")

	return &manifest.NexusData{ID: uint32(id), Version: version}
}
