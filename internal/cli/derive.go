package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/bom/rules"
	"github.com/solarwerk/pv-planner/internal/export"
	"github.com/solarwerk/pv-planner/internal/service/mappers"
)

const (
	tableFormat = "table"
	jsonFormat  = "json"
	yamlFormat  = "yaml"
	csvFormat   = "csv"
	xlsxFormat  = "xlsx"
)

var (
	legalOutputTypes = []string{tableFormat, jsonFormat, yamlFormat, csvFormat, xlsxFormat}
)

// deriveOutput is what json and yaml output print.
type deriveOutput struct {
	Bom             []bom.LineItem      `json:"bom"`
	Warnings        []string            `json:"warnings"`
	Recommendations bom.Recommendations `json:"recommendations"`
	Chosen          bom.Recommendations `json:"chosen"`
}

type DeriveOptions struct {
	Configuration string
	Catalog       string
	Defaults      string
	Overrides     string
	Title         string
	Output        string
	OutFile       string

	out io.Writer
}

func DefaultDeriveOptions() *DeriveOptions {
	return &DeriveOptions{
		Output: tableFormat,
		out:    os.Stdout,
	}
}

func NewCmdDerive() *cobra.Command {
	o := DefaultDeriveOptions()
	cmd := &cobra.Command{
		Use:     "derive --configuration FILE --catalog FILE [--defaults FILE] [--overrides FILE]",
		Short:   "Derive the bill of materials of an installation offline.",
		Example: "pv-planner derive --configuration roof.yaml --catalog catalog.yaml --defaults defaults.yaml -o xlsx --out roof.xlsx",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *DeriveOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.Configuration, "configuration", o.Configuration, "Path to the installation configuration (yaml or json).")
	fs.StringVar(&o.Catalog, "catalog", o.Catalog, "Path to the material catalog, a list of materials (yaml or json).")
	fs.StringVar(&o.Defaults, "defaults", o.Defaults, "Path to the flat defaults record (yaml or json). Fallback defaults are used when omitted.")
	fs.StringVar(&o.Overrides, "overrides", o.Overrides, "Path to recommendation overrides keyed by device class (yaml or json).")
	fs.StringVar(&o.Title, "title", o.Title, "Title of csv and xlsx exports. Defaults to the configuration file name.")
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.OutFile, "out", o.OutFile, "Write the output to this file instead of stdout.")
}

func (o *DeriveOptions) Complete(cmd *cobra.Command, args []string) error {
	o.Output = strings.ToLower(o.Output)
	if o.Title == "" && o.Configuration != "" {
		o.Title = strings.TrimSuffix(filepath.Base(o.Configuration), filepath.Ext(o.Configuration))
	}
	return nil
}

func (o *DeriveOptions) Validate(args []string) error {
	if o.Configuration == "" {
		return fmt.Errorf("--configuration is required")
	}
	if o.Catalog == "" {
		return fmt.Errorf("--catalog is required")
	}
	if !funk.ContainsString(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	if o.Output == xlsxFormat && o.OutFile == "" {
		return fmt.Errorf("xlsx output needs --out")
	}
	return nil
}

func (o *DeriveOptions) Run(ctx context.Context, args []string) error {
	var cfg bom.Configuration
	if err := readFile(o.Configuration, &cfg); err != nil {
		return err
	}

	var materials []bom.Material
	if err := readFile(o.Catalog, &materials); err != nil {
		return err
	}

	record := map[string]any{}
	if o.Defaults != "" {
		if err := readFile(o.Defaults, &record); err != nil {
			return err
		}
	}

	var overrides bom.Recommendations
	if o.Overrides != "" {
		if err := readFile(o.Overrides, &overrides); err != nil {
			return err
		}
	}

	derivation := rules.Derive(cfg, bom.NewCatalog(materials), mappers.ProjectDefaults(record), overrides)

	content, err := o.render(derivation)
	if err != nil {
		return err
	}

	if o.OutFile != "" {
		if err := os.WriteFile(o.OutFile, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", o.OutFile, err)
		}
		return nil
	}
	_, err = o.out.Write(content)
	return err
}

func (o *DeriveOptions) render(d rules.Derivation) ([]byte, error) {
	switch o.Output {
	case jsonFormat:
		marshalled, err := json.MarshalIndent(toDeriveOutput(d), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling bom: %w", err)
		}
		return append(marshalled, '\n'), nil
	case yamlFormat:
		marshalled, err := yaml.Marshal(toDeriveOutput(d))
		if err != nil {
			return nil, fmt.Errorf("marshalling bom: %w", err)
		}
		return marshalled, nil
	case csvFormat, xlsxFormat:
		renderer, err := export.NewRenderer(export.Format(o.Output))
		if err != nil {
			return nil, err
		}
		return renderer.Render(&export.Document{
			Title:     o.Title,
			Generated: time.Now(),
			Items:     d.BOM,
			Warnings:  d.Warnings,
		})
	default:
		return printTable(d)
	}
}

func toDeriveOutput(d rules.Derivation) deriveOutput {
	return deriveOutput{
		Bom:             d.BOM,
		Warnings:        d.Warnings,
		Recommendations: d.Recommendations,
		Chosen:          d.Chosen,
	}
}

func printTable(d rules.Derivation) ([]byte, error) {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 8, 1, '\t', 0)

	fmt.Fprintln(w, "MATERIAL\tQUANTITY\tCATEGORY\tDESCRIPTION\tFLAGS")
	for _, item := range d.BOM {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.MaterialID, formatQuantity(item.Quantity), item.Category, item.Description, flags(item))
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	for _, warning := range d.Warnings {
		fmt.Fprintf(&sb, "WARNING: %s\n", warning)
	}
	return []byte(sb.String()), nil
}

func formatQuantity(q float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", q), "0"), ".")
}

func flags(item bom.LineItem) string {
	var res []string
	if item.IsConfigured {
		res = append(res, "configured")
	}
	if item.IsManual {
		res = append(res, "manual")
	}
	return strings.Join(res, ",")
}
