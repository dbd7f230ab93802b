package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/samdwyer/duelband/internal/gamedata"
)

func newRosterCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List the available duelists and their moves",
		Long:  `List every roster in the catalogue with its health and moves, in selection order.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			var c *gamedata.Catalogue
			if cfg.RosterPath != "" {
				c, err = gamedata.LoadCatalogueFile(cfg.RosterPath)
			} else {
				c, err = gamedata.LoadCatalogue()
			}
			if err != nil {
				return fmt.Errorf("failed to load rosters: %w", err)
			}
			return printRosters(cmd.OutOrStdout(), c)
		},
	}
}

func printRosters(w io.Writer, c *gamedata.Catalogue) error {
	defs := make(map[string]gamedata.MoveDef, len(c.MoveDefs()))
	for _, d := range c.MoveDefs() {
		defs[d.ID] = d
	}

	for _, r := range c.Rosters() {
		fmt.Fprintf(w, "%s %s (ID: %s) HP %d\n", r.Symbol, r.Name, r.ID, r.MaxHP)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for i, id := range r.Moves {
			fmt.Fprintf(tw, "   %d\t%s\t%s\n", i+1, defs[id].Name, describeMove(defs[id]))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func describeMove(d gamedata.MoveDef) string {
	var parts []string
	switch d.Kind {
	case gamedata.KindHeal:
		parts = append(parts, fmt.Sprintf("heal %.0f%%", d.PercentHeal*100))
	default:
		parts = append(parts, fmt.Sprintf("damage %d", d.BaseDamage))
		if d.CritChance > 0 {
			parts = append(parts, fmt.Sprintf("crit %.0f%%", d.CritChance*100))
		}
	}
	parts = append(parts, fmt.Sprintf("accuracy %.0f%%", d.Accuracy*100))
	return strings.Join(parts, ", ")
}
