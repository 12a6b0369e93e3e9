package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"uclint/internal/rules"
)

type ruleRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "List the rules with their effective settings",
		Long:  `List every rule with the enable flag and severity in effect for the project at path.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRules,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	m, err := loadManifest(cmd, targetPath(args))
	if err != nil {
		return err
	}
	overrides, err := m.Config.Overrides()
	if err != nil {
		return err
	}
	rows := ruleRows(rules.NewEngine(nil, nil, overrides))

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty":
		colored, err := useColor(cmd, out)
		if err != nil {
			return err
		}
		renderRules(out, rows, colored)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func ruleRows(engine *rules.Engine) []ruleRow {
	descs := engine.Registry().Descriptors()
	rows := make([]ruleRow, 0, len(descs))
	for _, d := range descs {
		rows = append(rows, ruleRow{
			ID:          d.ID.ID(),
			Title:       d.Title,
			Category:    d.Category.String(),
			Severity:    engine.Severity(d.ID).String(),
			Enabled:     engine.Enabled(d.ID),
			Description: d.Description,
		})
	}
	return rows
}

func renderRules(out io.Writer, rows []ruleRow, colored bool) {
	id := color.New(color.Bold)
	off := color.New(color.Faint)
	for _, c := range []*color.Color{id, off} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	for _, r := range rows {
		state := "on "
		if !r.Enabled {
			state = off.Sprint("off")
		}
		fmt.Fprintf(out, "%s %s %-7s %s\n", state, id.Sprintf("%-18s", r.ID), r.Severity, r.Category)
		fmt.Fprintf(out, "    %s\n", r.Title)
	}
}
