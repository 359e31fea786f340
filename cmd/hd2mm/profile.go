package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"hd2mm/internal/domain"
	"hd2mm/internal/storage/config"

	"github.com/spf13/cobra"
)

var (
	optionOff bool
	optionSub int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage mod profiles",
	Long: `Manage profiles: named selections of enabled mods and their options.

Commands that act on a profile use --profile, or the active profile set with
'hd2mm profile use'.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE:  runProfileList,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Long: `Create a new empty profile. The first profile created becomes the active one.

Examples:
  hd2mm profile create "Armor Pack"`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileCreate,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Long: `Delete a profile and its file.

Note: This does not remove installed mods or deployed files.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileDelete,
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileUse,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the mods and options selected by a profile",
	RunE:  runProfileShow,
}

var profileEnableCmd = &cobra.Command{
	Use:   "enable <mod>...",
	Short: "Enable mods in a profile",
	Long: `Enable mods in the profile. Mods new to the profile start with every
option selected and the first sub-option of each choice.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfileSetEnabled(cmd, args, true)
	},
}

var profileDisableCmd = &cobra.Command{
	Use:   "disable <mod>...",
	Short: "Disable mods in a profile",
	Long:  `Disable mods in the profile. Their option selection is kept.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProfileSetEnabled(cmd, args, false)
	},
}

var profileOptionCmd = &cobra.Command{
	Use:   "option <mod> <option-index>",
	Short: "Select an option of a mod",
	Long: `Select or deselect one option of a mod in the profile, and optionally
choose its sub-option. Indices are shown by 'hd2mm mod show'.

Examples:
  hd2mm profile option "Armor Pack" 0
  hd2mm profile option "Armor Pack" 1 --sub 2
  hd2mm profile option "Armor Pack" 0 --off`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileOption,
}

func init() {
	profileOptionCmd.Flags().BoolVar(&optionOff, "off", false, "deselect the option")
	profileOptionCmd.Flags().IntVar(&optionSub, "sub", -1, "sub-option to choose")

	profileCmd.AddCommand(profileListCmd, profileCreateCmd, profileDeleteCmd, profileUseCmd,
		profileShowCmd, profileEnableCmd, profileDisableCmd, profileOptionCmd)
	rootCmd.AddCommand(profileCmd)
}

// setActiveProfile records name as the active profile in the config file.
// The file is reloaded so flag overrides are not persisted.
func setActiveProfile(dir, name string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	cfg.ActiveProfile = name
	return cfg.Save(dir)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	profiles := s.mgr.Profiles()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No profiles. Create one with 'hd2mm profile create <name>'.")
		return nil
	}

	for _, p := range profiles {
		enabled := 0
		for _, st := range p.Mods {
			if st.Enabled {
				enabled++
			}
		}
		marker := "  "
		name := p.Name
		if p.Name == s.cfg.ActiveProfile {
			marker = colorGreen("* ")
			name = bold(name)
		}
		fmt.Fprintf(out, "%s%s %s\n", marker, name, colorDim(fmt.Sprintf("(%d mod(s), %d enabled)", len(p.Mods), enabled)))
	}
	return nil
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.mgr.CreateProfile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created profile %s\n", colorGreen("✓"), p.Name)

	if s.cfg.ActiveProfile == "" {
		if err := setActiveProfile(s.configDir, p.Name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", p.Name)
	}
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	i, p, err := s.mgr.ProfileByName(args[0])
	if err != nil {
		return err
	}
	if err := s.mgr.DeleteProfile(i); err != nil {
		return err
	}
	if s.cfg.ActiveProfile == p.Name {
		if err := setActiveProfile(s.configDir, ""); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted profile %s\n", colorGreen("✓"), p.Name)
	return nil
}

func runProfileUse(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	_, p, err := s.mgr.ProfileByName(args[0])
	if err != nil {
		return err
	}
	if err := setActiveProfile(s.configDir, p.Name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", p.Name)
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	_, p, err := s.currentProfile()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold(p.Name))

	if len(p.Mods) == 0 {
		fmt.Fprintln(out, "No mods in this profile. Add some with 'hd2mm profile enable <mod>'.")
		return nil
	}

	var rows [][]string
	for _, mod := range s.mgr.Mods() {
		state := p.State(mod.GUID())
		if state == nil {
			continue
		}
		enabled := colorYellow("no")
		if state.Enabled {
			enabled = colorGreen("yes")
		}
		rows = append(rows, []string{truncate(mod.Name(), 40), enabled, describeSelection(mod, state)})
	}

	// Entries for mods that are no longer installed
	var missing []string
	for guid := range p.Mods {
		if !s.mgr.HasMod(guid) {
			missing = append(missing, guid.String())
		}
	}
	sort.Strings(missing)
	for _, guid := range missing {
		rows = append(rows, []string{colorDim(guid), colorDim("-"), colorDim("not installed")})
	}

	fmt.Fprintln(out, renderTable([]string{"Mod", "Enabled", "Selection"}, rows, nil))
	return nil
}

// describeSelection lists the selected options, with the chosen sub-option
func describeSelection(mod *domain.Mod, state *domain.ModState) string {
	opts := mod.Manifest.Options()
	if len(opts) == 0 {
		return "-"
	}

	var parts []string
	for i, opt := range opts {
		if !state.OptionEnabled(i) {
			continue
		}
		part := opt.Name
		if opt.HasSubOptions() {
			if sub, ok := state.SubOption(i); ok && sub >= 0 && sub < len(opt.SubOptions) {
				part += "=" + opt.SubOptions[sub].Name
			} else {
				part += "=" + colorRed("?")
			}
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return colorDim("(none)")
	}
	return strings.Join(parts, ", ")
}

func runProfileSetEnabled(cmd *cobra.Command, args []string, enabled bool) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	_, p, err := s.currentProfile()
	if err != nil {
		return err
	}

	verb := "Enabled"
	if !enabled {
		verb = "Disabled"
	}
	for _, ref := range args {
		mod, err := findMod(s.mgr, ref)
		if err != nil {
			return err
		}
		if err := s.mgr.SetModEnabled(p, mod.GUID(), enabled); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s in %s\n", colorGreen("✓"), verb, mod.Name(), p.Name)
	}
	return s.mgr.SaveProfiles()
}

func runProfileOption(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	_, p, err := s.currentProfile()
	if err != nil {
		return err
	}
	mod, err := findMod(s.mgr, args[0])
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid option index %q: %w", args[1], err)
	}

	if err := s.mgr.SetOption(p, mod.GUID(), index, !optionOff, optionSub); err != nil {
		return err
	}
	if err := s.mgr.SaveProfiles(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", colorGreen("✓"), mod.Name(), describeSelection(mod, p.State(mod.GUID())))
	return nil
}
