// Copyright
// SPDX-License-Identifier: MIT
// uml-studio: terminal PlantUML workbench with templates, rule-based generation and server previews
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"uml-studio/internal/config"
	"uml-studio/internal/logx"
	"uml-studio/internal/render"
	appTUI "uml-studio/internal/tui"
)

const Version = "0.3.0-beta"

/* ---------- CLI ---------- */

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app carries global flags and the state resolved from them.
type app struct {
	configPath string
	verbose    bool
	logFile    string
	server     string
	offline    bool

	cfg     *config.Config
	logSink io.Closer
}

const rootLong = `uml-studio ` + Version + `
Write PlantUML in the terminal. Start from a class, sequence or activity
template, describe a system to get a starter diagram, edit it, and preview it
through a PlantUML server.

Running without a command opens the studio. Press ? inside it for keys.

CONFIG
  ~/.config/uml-studio/config.yaml (see: uml-studio config init), overridden by
  UMLSTUDIO_* environment variables (a .env file in the working directory is read first).
  An empty server disables previews and server exports.`

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		dark     bool
		typeName string
	)
	root := &cobra.Command{
		Use:               "uml-studio",
		Short:             "Terminal PlantUML studio",
		Long:              rootLong,
		Version:           Version,
		SilenceUsage:      true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStudio(cmd, dark, typeName)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: user config dir/uml-studio/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.logFile, "log-file", "", "append logs to this file")
	pf.StringVar(&a.server, "server", "", "PlantUML server base URL (overrides config)")
	pf.BoolVar(&a.offline, "offline", false, "never contact a PlantUML server")
	root.Flags().BoolVar(&dark, "dark", false, "start in dark mode")
	root.Flags().StringVarP(&typeName, "type", "t", "", "initial diagram type: class, sequence or activity")

	root.AddCommand(
		newGenerateCmd(a),
		newTemplateCmd(a),
		newEncodeCmd(a),
		newDecodeCmd(a),
		newURLCmd(a),
		newRenderCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, applies global flag overrides and points the
// logger at the right sink. The studio owns the terminal, so without a log
// file its logs are discarded.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(a.configPath)
	if err != nil {
		if !(errors.Is(err, fs.ErrNotExist) && cmd.Name() == "init") {
			return err
		}
		d := config.Defaults()
		c = &d
	}
	if a.server != "" {
		c.Server = a.server
	}
	if a.offline {
		c.Server = ""
	}
	if a.logFile != "" {
		c.LogFile = a.logFile
	}
	a.cfg = c

	var w io.Writer = cmd.ErrOrStderr()
	if cmd == cmd.Root() {
		w = io.Discard
	}
	if c.LogFile != "" {
		f, err := logx.OpenFile(c.LogFile)
		if err != nil {
			return err
		}
		a.logSink = f
		w = f
	}
	logx.Setup(w, a.verbose)
	logx.Debug("config loaded", "server", c.Server, "defaultType", c.DefaultType)
	return nil
}

func (a *app) close() {
	if a.logSink != nil {
		_ = a.logSink.Close()
		a.logSink = nil
	}
}

func (a *app) client() (*render.Client, error) {
	return render.NewClient(a.cfg.Server, a.cfg.CacheSize,
		render.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}))
}

func (a *app) runStudio(cmd *cobra.Command, dark bool, typeName string) error {
	t, err := a.cfg.DiagramType()
	if err != nil {
		return err
	}
	if typeName != "" {
		if t, err = parseType(typeName); err != nil {
			return err
		}
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	opts := appTUI.Options{
		Type:          t,
		DarkMode:      dark || a.cfg.DarkMode,
		GenerateDelay: a.cfg.GenerateDelay,
		ExportDir:     a.cfg.ExportDir,
	}
	if !c.Offline() {
		opts.Renderer = c
	}
	logx.Info("studio starting", "type", t, "server", c.Server())
	if err := appTUI.Run(opts); err != nil {
		return fmt.Errorf("studio: %w", err)
	}
	return nil
}
