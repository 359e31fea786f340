package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"hd2mm/internal/domain"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show which patch files a profile selects",
	Long: `Resolve the profile without touching the game directory and list the
patch triplets grouped by hash identity, in the order deploy would place them.`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	i, p, err := s.currentProfile()
	if err != nil {
		return err
	}
	res, err := s.mgr.Resolve(i)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Len() == 0 {
		fmt.Fprintf(out, "Profile %s selects no patch files.\n", p.Name)
		return nil
	}

	var rows [][]string
	for _, hash := range res.Order {
		for k, t := range res.Groups[hash] {
			modName := t.ModGUID.String()
			if mod, err := s.mgr.Mod(t.ModGUID); err == nil {
				modName = mod.Name()
				if rel, err := filepath.Rel(mod.Path, t.Dir); err == nil && rel != "." {
					modName += "/" + filepath.ToSlash(rel)
				}
			}
			rows = append(rows, []string{
				hash,
				strconv.Itoa(k),
				strconv.Itoa(t.Index),
				slots(t),
				truncate(modName, 50),
			})
		}
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Hash", "Deploy", "Source", "Files", "Mod"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "\n%d hash(es), %d triplet(s)\n", len(res.Order), res.Len())
	return nil
}

// slots marks which members of a triplet are present, e.g. "M S G"
func slots(t domain.Triplet) string {
	marks := []struct {
		role  domain.PatchRole
		label string
	}{
		{domain.RoleMain, "M"},
		{domain.RoleStream, "S"},
		{domain.RoleGPU, "G"},
	}
	out := ""
	for i, m := range marks {
		if i > 0 {
			out += " "
		}
		if t.Path(m.role) != "" {
			out += m.label
		} else {
			out += "-"
		}
	}
	return out
}
