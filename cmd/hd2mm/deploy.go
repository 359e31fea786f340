package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a profile into the game's data directory",
	Long: `Purge previously deployed patch files and place the files the profile
selects. Patch indices are renumbered per hash so mods later in the store
load after earlier ones.

Examples:
  hd2mm deploy
  hd2mm deploy --profile "Armor Pack" --link symlink`,
	RunE: runDeploy,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove every patch file from the game's data directory",
	Long: `Remove every file in the data directory whose name contains "patch_",
returning the game to its unmodded state.`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(deployCmd, purgeCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	i, p, err := s.currentProfile()
	if err != nil {
		return err
	}

	result, err := s.mgr.Deploy(cmd.Context(), i)
	if err != nil {
		return fmt.Errorf("deploying %s: %w", p.Name, err)
	}

	out := cmd.OutOrStdout()
	if verbose {
		for _, f := range result.Files {
			fmt.Fprintf(out, "  %s %s\n", colorDim("→"), f.FileName)
		}
	}
	fmt.Fprintf(out, "%s Deployed %s: %d file(s) for %d hash(es) using %s", colorGreen("✓"),
		p.Name, len(result.Files), result.Groups, s.mgr.LinkMethod())
	if result.Purged > 0 {
		fmt.Fprintf(out, " %s", colorDim(fmt.Sprintf("(%d old file(s) removed)", result.Purged)))
	}
	fmt.Fprintln(out)
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.mgr.Purge()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %d patch file(s) from %s\n", colorGreen("✓"), n, s.mgr.DataDir())
	return nil
}
