package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"hd2mm/internal/core"
	"hd2mm/internal/domain"
	"hd2mm/internal/storage/layout"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var modShowFiles bool

var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Manage installed mods",
	Long: `Add mods from archives, remove them, and inspect the mod store.

Mods are referenced by GUID or by name (case-insensitive).`,
}

var modAddCmd = &cobra.Command{
	Use:   "add <archive>...",
	Short: "Install mods from archives",
	Long: `Extract each archive into the mod store. Archives without a manifest.json
get one inferred from their top-level folders.

Examples:
  hd2mm mod add ~/Downloads/Armor-1234-1-0-1700000000.zip
  hd2mm mod add pack.7z extras.rar`,
	Args: cobra.MinimumNArgs(1),
	RunE: runModAdd,
}

var modRemoveCmd = &cobra.Command{
	Use:     "remove <mod>",
	Aliases: []string{"rm"},
	Short:   "Remove an installed mod",
	Long: `Delete a mod from the store and drop it from every profile.

Deployed files are not touched; run 'hd2mm deploy' afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runModRemove,
}

var modListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed mods",
	RunE:    runModList,
}

var modShowCmd = &cobra.Command{
	Use:   "show <mod>",
	Short: "Show a mod's manifest and options",
	Args:  cobra.ExactArgs(1),
	RunE:  runModShow,
}

func init() {
	modShowCmd.Flags().BoolVar(&modShowFiles, "files", false, "list the mod's files")

	modCmd.AddCommand(modAddCmd, modRemoveCmd, modListCmd, modShowCmd)
	rootCmd.AddCommand(modCmd)
}

// findMod resolves a GUID or case-insensitive name to an installed mod
func findMod(mgr *core.ModManager, ref string) (*domain.Mod, error) {
	if guid, err := uuid.Parse(ref); err == nil {
		return mgr.Mod(guid)
	}

	var found *domain.Mod
	for _, m := range mgr.Mods() {
		if !strings.EqualFold(m.Name(), ref) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%q matches more than one mod; use the GUID", ref)
		}
		found = m
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrModNotFound, ref)
	}
	return found, nil
}

func runModAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	var failed int
	for _, archive := range args {
		guid, err := s.mgr.AddMod(cmd.Context(), archive)
		if err != nil {
			failed++
			fmt.Fprintf(out, "  %s %s: %v\n", colorRed("✗"), archive, err)

			var addErr *core.AddError
			if errors.As(err, &addErr) && addErr.TempDir != "" {
				if rmErr := os.RemoveAll(addErr.TempDir); rmErr != nil {
					s.log.Warn("removing extraction directory", "dir", addErr.TempDir, "err", rmErr)
				}
			}
			continue
		}

		mod, err := s.mgr.Mod(guid)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s %s %s\n", colorGreen("✓"), mod.Name(), colorDim(guid.String()))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d archive(s) failed", failed, len(args))
	}
	return nil
}

func runModRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	mod, err := findMod(s.mgr, args[0])
	if err != nil {
		return err
	}
	name, guid := mod.Name(), mod.GUID()

	if err := s.mgr.RemoveMod(guid); err != nil {
		return err
	}
	for _, p := range s.mgr.Profiles() {
		p.RemoveMod(guid)
	}
	if err := s.mgr.SaveProfiles(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", colorGreen("✓"), name)
	return nil
}

func runModList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	mods := s.mgr.Mods()
	if len(mods) == 0 {
		fmt.Fprintln(out, "No mods installed.")
		return nil
	}

	rows := make([][]string, 0, len(mods))
	for _, m := range mods {
		nexus := ""
		if n := m.Manifest.Nexus(); n != nil {
			nexus = fmt.Sprintf("%d (%s)", n.ID, n.Version)
		}
		format := "v" + strconv.Itoa(m.Manifest.Version())
		if m.Manifest.IsLegacy() {
			format = "legacy"
		}
		rows = append(rows, []string{
			truncate(m.Name(), 40),
			m.GUID().String(),
			strconv.Itoa(len(m.Manifest.Options())),
			format,
			nexus,
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Name", "GUID", "Options", "Manifest", "Nexus"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	if verbose {
		fmt.Fprintf(out, "\nTotal: %d mod(s)\n", len(mods))
	}
	return nil
}

func runModShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	mod, err := findMod(s.mgr, args[0])
	if err != nil {
		return err
	}
	man := mod.Manifest
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, bold(man.Name()))
	fmt.Fprintf(out, "GUID:      %s\n", man.GUID())
	fmt.Fprintf(out, "Path:      %s\n", mod.Path)
	if man.Description() != "" {
		fmt.Fprintf(out, "About:     %s\n", man.Description())
	}
	if man.IconPath() != "" {
		fmt.Fprintf(out, "Icon:      %s\n", man.IconPath())
	}
	if n := man.Nexus(); n != nil {
		fmt.Fprintf(out, "NexusMods: %d (version %s)\n", n.ID, n.Version)
	}
	if size, err := layout.Size(mod.Path); err == nil {
		fmt.Fprintf(out, "Size:      %s\n", humanize.IBytes(uint64(size)))
	}

	for i, opt := range man.Options() {
		fmt.Fprintf(out, "\n[%d] %s", i, bold(opt.Name))
		if len(opt.Include) > 0 {
			fmt.Fprintf(out, " %s", colorDim(strings.Join(opt.Include, ", ")))
		}
		fmt.Fprintln(out)
		if opt.Description != "" {
			fmt.Fprintf(out, "    %s\n", opt.Description)
		}
		for j, sub := range opt.SubOptions {
			fmt.Fprintf(out, "    %d. %s %s\n", j, sub.Name, colorDim(strings.Join(sub.Include, ", ")))
		}
	}

	if modShowFiles {
		files, err := layout.ListFiles(mod.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nFiles (%d):\n", len(files))
		for _, f := range files {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}
	return nil
}
