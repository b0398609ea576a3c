package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	countrywf "github.com/PancyStudios/GeoGateGo/internal/workflows/countries"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/PancyStudios/GeoGateGo/pkg/settings"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "show [collection]",
		Short:     "Print the settings, or one collection of them",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"blockedCountries", "timeRestrictions", "affiliateExceptions", "blockMessages"},
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			col := models.CollectionAll
			if len(args) == 1 {
				col = models.Collection(args[0])
			}
			data, err := models.CollectionData(current, col)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
}

// newMigrateCmd reports how the stored document decodes; loading it rewrites a legacy one
func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite a legacy settings document in the current schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _, err := a.backend.Get(cmd.Context(), a.store.Key())
			if err != nil {
				return err
			}
			decoded := settings.Decode(raw)

			out := cmd.OutOrStdout()
			switch decoded.Outcome {
			case settings.OutcomeCurrent:
				fmt.Fprintln(out, "already current, nothing to do")
				return nil
			case settings.OutcomeEmpty:
				fmt.Fprintln(out, "nothing stored, defaults apply")
				return nil
			case settings.OutcomeCorrupt:
				return fmt.Errorf("stored document is unreadable: %s", strings.Join(decoded.Notes, "; "))
			}

			if _, err := a.store.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "migrated:")
			for _, n := range decoded.Notes {
				fmt.Fprintf(out, "  - %s\n", n)
			}
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the stored settings with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to overwrite %q without --yes", a.store.Key())
			}
			if _, err := a.store.Save(cmd.Context(), models.DefaultSettings()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "settings reset to defaults")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the overwrite")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the settings in the current schema to a file or stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			raw, err := settings.Encode(current)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return err
			}
			return os.WriteFile(out, raw, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
	return cmd
}

// newImportCmd accepts current and legacy documents; legacy ones are migrated first
func newImportCmd(a *app) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the stored settings with a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if in == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(in)
			}
			if err != nil {
				return err
			}

			decoded := settings.Decode(raw)
			switch decoded.Outcome {
			case settings.OutcomeEmpty:
				return fmt.Errorf("%s is empty", in)
			case settings.OutcomeCorrupt:
				return fmt.Errorf("%s is not a settings document: %s", in, strings.Join(decoded.Notes, "; "))
			}

			saved, err := a.store.Save(cmd.Context(), decoded.Settings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported (%s): %d blocked countries, %d time restrictions, %d affiliate exceptions\n",
				decoded.Outcome, saved.BlockedCount(), len(saved.TimeRestrictions), len(saved.AffiliateExceptions))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input file, - for stdin (required)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newCountriesCmd(a *app) *cobra.Command {
	var (
		search      string
		blockedOnly bool
	)
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries with their blocked state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			selection := countrywf.New(a.store, current.BlockedCountries, nil)

			out := cmd.OutOrStdout()
			for _, c := range selection.Filter(search) {
				if blockedOnly && !c.Blocked {
					continue
				}
				mark := " "
				if c.Blocked {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %s  %s\n", mark, c.Code, c.Name)
			}
			fmt.Fprintf(out, "%d blocked\n", selection.SelectedCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only countries whose name contains this")
	cmd.Flags().BoolVar(&blockedOnly, "blocked", false, "only blocked countries")
	return cmd
}
