package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"uml-studio/internal/catalog"
	"uml-studio/internal/config"
	"uml-studio/internal/generate"
	"uml-studio/internal/logx"
	"uml-studio/internal/render"
)

func parseType(name string) (catalog.DiagramType, error) {
	t, err := catalog.Parse(name)
	if err != nil {
		return "", fmt.Errorf("%w (want one of: %s)", err, strings.Join(catalog.Names(), ", "))
	}
	return t, nil
}

// readSource returns the file named by args[0], or stdin when there is no
// argument or it is "-".
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

/* ---------- generate ---------- */

func newGenerateCmd(a *app) *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "generate [description...]",
		Short: "Produce a starter diagram from a natural-language description",
		Long: `Pick a diagram from keywords in the description:
  "user" and "post"        class diagram template
  "sequence" or "api"      sequence diagram template
  "flow" or "process"      activity diagram template
  anything else            a generic two-class diagram quoting the description
With no arguments the description is read from stdin. A blank description prints nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := strings.Join(args, " ")
			if len(args) == 0 {
				s, err := readSource(cmd, nil)
				if err != nil {
					return err
				}
				desc = s
			}
			if !cmd.Flags().Changed("delay") {
				delay = a.cfg.GenerateDelay
			}
			res, err := generate.Run(cmd.Context(), desc, delay)
			if errors.Is(err, generate.ErrBlankDescription) {
				logx.Debug("blank description, nothing generated")
				return nil
			}
			if err != nil {
				return err
			}
			if res.Fallback() {
				logx.Info("generated", "rule", "fallback")
			} else {
				logx.Info("generated", "rule", res.Rule, "type", res.Type)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Source)
			return err
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", generate.DefaultDelay, "simulated latency (default from config)")
	return cmd
}

/* ---------- template ---------- */

func newTemplateCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:       "template [type]",
		Short:     "Print a diagram template, or list them",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: catalog.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, t := range catalog.Types() {
					fmt.Fprintf(out, "%-10s %s\n", t, t.Label())
				}
				return nil
			}
			t, err := parseType(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, catalog.Get(t))
			return err
		},
	}
}

/* ---------- encode / decode / url ---------- */

func newEncodeCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file|-]",
		Short: "Encode PlantUML source into the server's URL form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			enc, err := render.Encode(src)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), enc)
			return err
		},
	}
}

func newDecodeCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <encoded|url>",
		Short: "Decode an encoded diagram (or a server URL) back to source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := render.Decode(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), src)
			return err
		},
	}
}

func newURLCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "url [file|-]",
		Short: "Print the server URL for a diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			u, err := c.URL(src, f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatEditor), "uml, svg, png or txt")
	return cmd
}

/* ---------- render ---------- */

func newRenderCmd(a *app) *cobra.Command {
	var (
		formats []string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a diagram through the PlantUML server",
		Long: `Render fetches each requested format from the server.
With one format and no --output the result goes to stdout. With several
formats --output is required and names the base path; each format gets its
own extension (diagram -> diagram.svg, diagram.png).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := make([]render.Format, 0, len(formats))
			for _, s := range formats {
				f, err := render.ParseFormat(s)
				if err != nil {
					return err
				}
				if f == render.FormatEditor {
					return fmt.Errorf("%w: %q is a link, use the url command", render.ErrUnknownFormat, s)
				}
				want = append(want, f)
			}
			if len(want) == 0 {
				want = []render.Format{render.FormatText}
			}
			if len(want) > 1 && output == "" {
				return errors.New("--output is required with more than one format")
			}
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			results, err := renderAll(cmd.Context(), c, src, want)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(results[0])
				return err
			}
			for i, f := range want {
				path := output
				if len(want) > 1 || filepath.Ext(path) == "" {
					path = strings.TrimSuffix(output, filepath.Ext(output)) + "." + string(f)
				}
				if err := os.WriteFile(path, results[i], 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				logx.Info("rendered", "format", f, "path", path, "bytes", len(results[i]))
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{string(render.FormatText)}, "txt, svg or png (repeatable or comma separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path")
	return cmd
}

// renderAll fetches every format concurrently; results follow the order of formats.
func renderAll(ctx context.Context, c *render.Client, src string, formats []render.Format) ([][]byte, error) {
	out := make([][]byte, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			b, err := c.Render(ctx, src, f)
			if err != nil {
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

/* ---------- config ---------- */

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.cfg
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server:        %s\n", c.Server)
			fmt.Fprintf(out, "timeout:       %s\n", c.Timeout)
			fmt.Fprintf(out, "generateDelay: %s\n", c.GenerateDelay)
			fmt.Fprintf(out, "defaultType:   %s\n", c.DefaultType)
			fmt.Fprintf(out, "darkMode:      %t\n", c.DarkMode)
			fmt.Fprintf(out, "exportDir:     %s\n", c.ExportDir)
			fmt.Fprintf(out, "cacheSize:     %d\n", c.CacheSize)
			fmt.Fprintf(out, "logFile:       %s\n", c.LogFile)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print version",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "uml-studio", Version)
		},
	}
}
