package nexusmods

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hasura/go-graphql-client"
)

const (
	graphqlEndpoint = "https://api.nexusmods.com/v2/graphql"

	// GameID is the NexusMods numeric ID for Helldivers 2
	GameID = "6060"
)

// Client wraps the NexusMods GraphQL API
type Client struct {
	gql    *graphql.Client
	apiKey string
	gameID string
}

// NewClient creates a new NexusMods API client
func NewClient(httpClient *http.Client, apiKey string) *Client {
	return newClient(httpClient, apiKey, graphqlEndpoint)
}

func newClient(httpClient *http.Client, apiKey, endpoint string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// Create transport that adds API key header
	transport := &apiKeyTransport{
		base:   httpClient.Transport,
		apiKey: apiKey,
	}
	authedClient := &http.Client{Transport: transport, Timeout: httpClient.Timeout}

	return &Client{
		gql:    graphql.NewClient(endpoint, authedClient),
		apiKey: apiKey,
		gameID: GameID,
	}
}

type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.apiKey != "" {
		req = req.Clone(req.Context())
		req.Header.Set("apikey", t.apiKey)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// IsAuthenticated returns true if an API key is configured
func (c *Client) IsAuthenticated() bool {
	return c.apiKey != ""
}

// GetMod fetches a Helldivers 2 mod by ID
func (c *Client) GetMod(ctx context.Context, modID uint32) (*ModData, error) {
	var query struct {
		Mod ModData `graphql:"mod(gameId: $gameId, modId: $modId)"`
	}

	variables := map[string]interface{}{
		"gameId": graphql.ID(c.gameID),
		"modId":  graphql.ID(strconv.FormatUint(uint64(modID), 10)),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("querying mod %d: %w", modID, err)
	}

	return &query.Mod, nil
}
