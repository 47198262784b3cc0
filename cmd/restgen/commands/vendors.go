package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/restgen/generator"
	"github.com/erraggy/restgen/internal/cliutil"
	"github.com/erraggy/restgen/internal/fileutil"
	"github.com/erraggy/restgen/internal/pathutil"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func newVendorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors [name]",
		Short: "List built-in vendor profiles",
		Long: "List the built-in vendor profiles, or show one in full.\n\n" +
			"A profile can be written to a file with --write and then edited and\n" +
			"passed back through generate --vendor-file.",
		Example: "  restgen vendors\n" +
			"  restgen vendors stripe --format yaml\n" +
			"  restgen vendors generic --write acme.yaml",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVendors(cmd, args)
		},
	}
	cmd.Flags().String("format", FormatText, "output format: text, json or yaml")
	cmd.Flags().String("write", "", "write the named profile as YAML to this file")
	return cmd
}

func (a *app) runVendors(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateOutputFormat(format); err != nil {
		return err
	}
	writePath, _ := cmd.Flags().GetString("write")

	names := generator.VendorNames()
	if len(args) == 1 {
		names = []string{strings.ToLower(args[0])}
	} else if writePath != "" {
		return errors.New("--write requires a vendor name")
	}

	profiles := make([]*generator.VendorProfile, 0, len(names))
	for _, name := range names {
		p, err := generator.BuiltinVendor(name)
		if err != nil {
			return err
		}
		profiles = append(profiles, p)
	}

	if writePath != "" {
		data, err := yaml.Marshal(profiles[0])
		if err != nil {
			return fmt.Errorf("marshaling profile: %w", err)
		}
		writePath, err = pathutil.SanitizeOutputPath(writePath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(writePath, data, fileutil.OwnerReadWrite); err != nil {
			return fmt.Errorf("writing profile: %w", err)
		}
		a.logger.Debug("wrote vendor profile", "vendor", profiles[0].Name, "path", writePath)
		cliutil.Writef(cmd.OutOrStdout(), "Wrote %s profile to %s\n", profiles[0].Name, writePath)
		return nil
	}

	out := cmd.OutOrStdout()
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(profiles, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling to json: %w", err)
		}
		cliutil.Writef(out, "%s\n", data)
	case FormatYAML:
		data, err := yaml.Marshal(profiles)
		if err != nil {
			return fmt.Errorf("marshaling to yaml: %w", err)
		}
		cliutil.Writef(out, "%s", data)
	default:
		cliutil.Writef(out, "Vendor profiles (%d):\n", len(profiles))
		for _, p := range profiles {
			drivers := make([]string, 0, len(p.Drivers))
			for _, d := range p.Drivers {
				drivers = append(drivers, string(d))
			}
			cliutil.Writef(out, "  %-12s %s\n", p.Name, strings.Join(drivers, ", "))
		}
	}
	return nil
}

func validateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}
