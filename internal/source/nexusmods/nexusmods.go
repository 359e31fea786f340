package nexusmods

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoVersion is returned when NexusMods reports a mod without a version
var ErrNoVersion = errors.New("mod has no published version")

// NexusMods answers version lookups for the update check
type NexusMods struct {
	client *Client
}

// New creates a new NexusMods source
func New(httpClient *http.Client, apiKey string) *NexusMods {
	return &NexusMods{
		client: NewClient(httpClient, apiKey),
	}
}

// Name returns the display name
func (n *NexusMods) Name() string {
	return "Nexus Mods"
}

// IsAuthenticated returns true if an API key is configured
func (n *NexusMods) IsAuthenticated() bool {
	return n.client.IsAuthenticated()
}

// LatestVersion returns the version currently published for modID
func (n *NexusMods) LatestVersion(ctx context.Context, modID uint32) (string, error) {
	mod, err := n.client.GetMod(ctx, modID)
	if err != nil {
		return "", err
	}
	if mod.Version == "" {
		return "", fmt.Errorf("%w: %d", ErrNoVersion, modID)
	}
	return mod.Version, nil
}
