package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hd2mm/internal/manifest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyManifest = `{
	"Guid": "010000aa-0000-4d2e-a838-2a78324a6ccb",
	"Name": "Liberty's Ladies Base Pack",
	"Description": "Model replacements for all available armor sets",
	"IconPath": "icon.png",
	"Options": ["Base", "Extras"]
}`

const v1Manifest = `{
	"Version": 1,
	"Guid": "00000000-0000-0000-0000-000000000000",
	"Name": "Test",
	"Description": "A test mod.",
	"Options": [
		{
			"Name": "Default",
			"Description": "The default option.",
			"Include": ["(Body)"],
			"SubOptions": [
				{"Name": "Version A", "Description": "Skin A", "Include": ["Folder A"]},
				{"Name": "Version B", "Description": "Skin B", "Include": ["Folder B"]}
			]
		}
	],
	"NexusData": {"Id": 123, "Version": "1.2.0"}
}`

func TestDecode_Legacy(t *testing.T) {
	m, err := manifest.Decode([]byte(legacyManifest))
	require.NoError(t, err)

	assert.True(t, m.IsLegacy())
	assert.Equal(t, 0, m.Version())
	assert.Equal(t, uuid.MustParse("010000aa-0000-4d2e-a838-2a78324a6ccb"), m.GUID())
	assert.Equal(t, "Liberty's Ladies Base Pack", m.Name())
	assert.Equal(t, "icon.png", m.IconPath())
	assert.Nil(t, m.Nexus())

	opts := m.Options()
	require.Len(t, opts, 1)
	assert.Equal(t, manifest.DefaultOptionName, opts[0].Name)
	assert.Empty(t, opts[0].Include)
	require.Len(t, opts[0].SubOptions, 2)
	assert.Equal(t, "Base", opts[0].SubOptions[0].Name)
	assert.Equal(t, []string{"Base"}, opts[0].SubOptions[0].Include)
	assert.Equal(t, "Extras", opts[0].SubOptions[1].Name)
	assert.Equal(t, []string{"Extras"}, opts[0].SubOptions[1].Include)
}

func TestDecode_LegacyWithoutOptions(t *testing.T) {
	m, err := manifest.Decode([]byte(`{
		"Guid": "010000aa-0000-4d2e-a838-2a78324a6ccb",
		"Name": "Bare",
		"Description": ""
	}`))
	require.NoError(t, err)
	assert.True(t, m.IsLegacy())
	assert.Nil(t, m.Options())
	assert.Equal(t, "", m.IconPath())
}

func TestOptions_LegacyTranslationIsStable(t *testing.T) {
	m, err := manifest.Decode([]byte(legacyManifest))
	require.NoError(t, err)

	first := m.Options()
	second := m.Options()
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	// Same backing array, not a re-derived copy
	assert.Same(t, &first[0], &second[0])
	assert.Equal(t, first, second)
}

func TestDecode_V1(t *testing.T) {
	m, err := manifest.Decode([]byte(v1Manifest))
	require.NoError(t, err)

	assert.False(t, m.IsLegacy())
	assert.Equal(t, 1, m.Version())
	assert.Equal(t, uuid.Nil, m.GUID())

	opts := m.Options()
	require.Len(t, opts, 1)
	assert.Equal(t, []string{"(Body)"}, opts[0].Include)
	require.Len(t, opts[0].SubOptions, 2)
	assert.Equal(t, "Skin B", opts[0].SubOptions[1].Description)
	assert.Equal(t, []string{"Folder B"}, opts[0].SubOptions[1].Include)

	require.NotNil(t, m.Nexus())
	assert.Equal(t, uint32(123), m.Nexus().ID)
	assert.Equal(t, "1.2.0", m.Nexus().Version)
}

func TestDecode_UnknownVersion(t *testing.T) {
	for _, version := range []string{"2", "0", "-1", "99", "18446744073709551616"} {
		t.Run(version, func(t *testing.T) {
			_, err := manifest.Decode([]byte(`{"Version": ` + version + `, "Guid": "00000000-0000-0000-0000-000000000000", "Name": "x", "Description": "y"}`))
			var verr *manifest.UnknownVersionError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), version)
		})
	}

	_, err := manifest.Decode([]byte(`{"Version": 2}`))
	var verr *manifest.UnknownVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "2", verr.Version)
}

func TestDecode_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		field   string
		missing bool
	}{
		{"version not integer", `{"Version": "1"}`, "Version", false},
		{"version fractional", `{"Version": 1.5}`, "Version", false},
		{"legacy missing name", `{"Guid": "00000000-0000-0000-0000-000000000000", "Description": ""}`, "Name", true},
		{"legacy name wrong type", `{"Guid": "00000000-0000-0000-0000-000000000000", "Name": 4, "Description": ""}`, "Name", false},
		{"legacy options not strings", `{"Guid": "00000000-0000-0000-0000-000000000000", "Name": "a", "Description": "", "Options": [1]}`, "Options[0]", false},
		{"guid wrong type", `{"Guid": 7, "Name": "a", "Description": ""}`, "Guid", false},
		{"v1 option missing description", `{"Version": 1, "Guid": "00000000-0000-0000-0000-000000000000", "Name": "a", "Description": "", "Options": [{"Name": "o"}]}`, "Options[0].Description", true},
		{"v1 sub-option empty include", `{"Version": 1, "Guid": "00000000-0000-0000-0000-000000000000", "Name": "a", "Description": "", "Options": [{"Name": "o", "Description": "", "SubOptions": [{"Name": "s", "Description": "", "Include": []}]}]}`, "Options[0].SubOptions[0].Include", false},
		{"v1 nexus id wrong type", `{"Version": 1, "Guid": "00000000-0000-0000-0000-000000000000", "Name": "a", "Description": "", "NexusData": {"Id": "12", "Version": "1"}}`, "NexusData.Id", false},
		{"root not object", `[1, 2]`, "$", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Decode([]byte(tt.input))
			var ferr *manifest.FieldError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.field, ferr.Field)
			assert.Equal(t, tt.missing, ferr.Missing)
		})
	}
}

func TestDecode_MalformedGUID(t *testing.T) {
	_, err := manifest.Decode([]byte(`{"Guid": "not-a-guid", "Name": "a", "Description": ""}`))
	assert.True(t, errors.Is(err, manifest.ErrMalformedGUID))
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := manifest.Decode([]byte(`{"Guid": `))
	assert.ErrorIs(t, err, manifest.ErrInvalidJSON)
}

func TestEncode_RoundTrip(t *testing.T) {
	guid := uuid.New()
	original := manifest.New(guid, "Test", "A test mod.", "icon.png", []manifest.Option{
		{
			Name:        "Default",
			Description: "The default option.",
			Include:     []string{"(Body)"},
			SubOptions: []manifest.SubOption{
				{Name: "Version A", Description: "Skin A", Include: []string{"Folder A"}},
				{Name: "Version B", Description: "Skin B", Include: []string{"Folder B", "Shared"}},
			},
		},
		{Name: "Extra", Description: "Toggle", Include: []string{"extra"}},
	}, &manifest.NexusData{ID: 42, Version: "2.0"})

	data, err := manifest.Encode(original)
	require.NoError(t, err)

	decoded, err := manifest.Decode(data)
	require.NoError(t, err)

	assert.False(t, decoded.IsLegacy())
	assert.Equal(t, original.GUID(), decoded.GUID())
	assert.Equal(t, original.Name(), decoded.Name())
	assert.Equal(t, original.Description(), decoded.Description())
	assert.Equal(t, original.IconPath(), decoded.IconPath())
	assert.Equal(t, original.Options(), decoded.Options())
	assert.Equal(t, original.Nexus(), decoded.Nexus())
}

func TestEncode_RoundTripEmptySlices(t *testing.T) {
	original := manifest.New(uuid.New(), "Test", "", "", []manifest.Option{
		{Name: "Toggle", Description: "", Include: []string{}, SubOptions: []manifest.SubOption{}},
		{Name: "Pick", Description: "", Include: []string{}, SubOptions: []manifest.SubOption{
			{Name: "A", Description: "", Include: []string{"a"}},
		}},
	}, nil)

	data, err := manifest.Encode(original)
	require.NoError(t, err)
	decoded, err := manifest.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, original.Options(), decoded.Options())
	assert.Nil(t, decoded.Options()[0].Include)
	assert.Nil(t, decoded.Options()[0].SubOptions)

	empty := manifest.New(uuid.New(), "Bare", "", "", []manifest.Option{}, nil)
	data, err = manifest.Encode(empty)
	require.NoError(t, err)
	decoded, err = manifest.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, empty.Options(), decoded.Options())
}

func TestEncode_UpgradesLegacy(t *testing.T) {
	legacy, err := manifest.Decode([]byte(legacyManifest))
	require.NoError(t, err)

	data, err := manifest.Encode(legacy)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Version": 1`)

	upgraded, err := manifest.Decode(data)
	require.NoError(t, err)
	assert.False(t, upgraded.IsLegacy())
	assert.Equal(t, legacy.GUID(), upgraded.GUID())
	assert.Equal(t, legacy.Options(), upgraded.Options())
}

func TestCreate_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifest.FileName)
	m := manifest.New(uuid.New(), "a", "", "", nil, nil)

	require.NoError(t, manifest.Create(path, m))
	err := manifest.Create(path, m)
	assert.ErrorIs(t, err, os.ErrExist)

	loaded, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.GUID(), loaded.GUID())
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifest.FileName)
	require.NoError(t, os.WriteFile(path, []byte(legacyManifest), 0644))

	legacy, err := manifest.Load(path)
	require.NoError(t, err)
	require.True(t, legacy.IsLegacy())

	require.NoError(t, manifest.Save(path, legacy))

	reloaded, err := manifest.Load(path)
	require.NoError(t, err)
	assert.False(t, reloaded.IsLegacy())
}
