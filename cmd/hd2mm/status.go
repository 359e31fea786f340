package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last deployment and check its files",
	Long: `Show which profile was last deployed and check every file it placed
against the data directory. Files that were deleted or replaced since are
reported as missing. Patch files in the data directory that no deployment
placed are reported as untracked.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Game:     %s\n", s.mgr.GamePath())
	fmt.Fprintf(out, "Storage:  %s\n", s.mgr.StoragePath())
	fmt.Fprintf(out, "Temp:     %s\n", s.mgr.TempPath())
	fmt.Fprintf(out, "Mods:     %d installed\n", s.mgr.Store().Len())
	if s.cfg.ActiveProfile != "" {
		fmt.Fprintf(out, "Profile:  %s\n", s.cfg.ActiveProfile)
	}

	last, statuses, err := s.mgr.DeploymentStatus()
	if err != nil {
		return err
	}
	untracked, err := s.mgr.UntrackedFiles()
	if err != nil {
		return err
	}
	defer printUntracked(cmd, untracked)

	if last == nil {
		fmt.Fprintln(out, "\nNothing deployed yet.")
		return nil
	}

	fmt.Fprintf(out, "\nLast deployment: %s at %s using %s\n",
		bold(last.ProfileName), last.DeployedAt.Local().Format("2006-01-02 15:04:05"), last.LinkMethod)

	if len(statuses) == 0 {
		fmt.Fprintln(out, "No files deployed.")
		return nil
	}

	missing := 0
	var rows [][]string
	for _, st := range statuses {
		state := colorGreen("ok")
		if !st.Present {
			state = colorRed("missing")
			missing++
		}
		owner := st.ModGUID.String()
		if mod, err := s.mgr.Mod(st.ModGUID); err == nil {
			owner = mod.Name()
		}
		rows = append(rows, []string{st.FileName, strconv.Itoa(st.Index), truncate(owner, 40), state})
	}

	if verbose || missing > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"File", "Index", "Mod", "State"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
		))
	}

	if missing > 0 {
		fmt.Fprintf(out, "%s %d of %d file(s) missing; run 'hd2mm deploy' to restore\n",
			colorYellow("⚠"), missing, len(statuses))
		return nil
	}
	fmt.Fprintf(out, "%s All %d file(s) in place\n", colorGreen("✓"), len(statuses))
	return nil
}

// printUntracked lists patch files that hd2mm did not place; purge removes them too
func printUntracked(cmd *cobra.Command, names []string) {
	if len(names) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d untracked patch file(s) in data directory; 'hd2mm purge' removes them\n",
		colorYellow("⚠"), len(names))
	if verbose {
		for _, name := range names {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
}
