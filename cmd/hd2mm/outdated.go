package main

import (
	"fmt"
	"os"

	"hd2mm/internal/source/nexusmods"

	"github.com/spf13/cobra"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Check NexusMods for newer mod versions",
	Long: `Look up the latest NexusMods version of every installed mod whose manifest
carries NexusMods data and list the ones with a newer release.

The API key is read from NEXUSMODS_API_KEY or nexus_api_key in config.yaml.`,
	RunE: runOutdated,
}

func init() {
	rootCmd.AddCommand(outdatedCmd)
}

func runOutdated(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	apiKey := os.Getenv("NEXUSMODS_API_KEY")
	if apiKey == "" {
		apiKey = s.cfg.NexusAPIKey
	}
	nexus := nexusmods.New(nil, apiKey)
	if !nexus.IsAuthenticated() {
		s.log.Warn("no NexusMods API key configured; requests may be rejected")
	}

	out := cmd.OutOrStdout()
	updates, checkErr := s.mgr.CheckUpdates(cmd.Context(), nexus)

	if len(updates) == 0 {
		fmt.Fprintln(out, "All mods are up to date.")
	} else {
		rows := make([][]string, 0, len(updates))
		for _, u := range updates {
			rows = append(rows, []string{
				truncate(u.Mod.Name(), 40),
				u.CurrentVersion,
				colorGreen(u.LatestVersion),
				fmt.Sprintf("https://www.nexusmods.com/helldivers2/mods/%d", u.NexusID),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Mod", "Installed", "Latest", "Page"}, rows, nil))
	}

	return checkErr
}
