package nexusmods

// ModData is the subset of the GraphQL Mod type the update check needs
type ModData struct {
	ModID     int    `graphql:"modId"`
	Name      string `graphql:"name"`
	Summary   string `graphql:"summary"`
	Version   string `graphql:"version"`
	Author    string `graphql:"author"`
	UpdatedAt string `graphql:"updatedAt"`
}
