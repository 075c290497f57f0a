package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keshon/qrm/internal/changelog"
	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/commands/base"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/help"
	"github.com/keshon/qrm/internal/listing"
	"github.com/keshon/qrm/internal/logging"
	v "github.com/keshon/qrm/internal/version"
)

// app is what the subcommands share once the root has loaded the config.
type app struct {
	cfg *config.Config
	reg *command.Registry
	cl  *changelog.Changelog
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "qrm-cli",
		Short:         "Offline tools for the " + v.AppName + " bot",
		Version:       v.Release,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(a.newChangelogCmd(), a.newReadmeCmd())
	// cobra's own help stays reachable through --help
	root.SetHelpCommand(a.newHelpCmd())
	return root
}

// load reads the config, the changelog and the command set once.
func (a *app) load() error {
	if a.reg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg)

	cl, err := changelog.Load(cfg.ChangelogPath)
	if err != nil {
		return err
	}

	reg := command.NewRegistry()
	err = base.Register(&base.Deps{Config: cfg, Registry: reg, Changelog: cl, Commit: v.Commit(".")})
	if err != nil {
		return err
	}
	a.cfg, a.reg, a.cl = cfg, reg, cl
	return nil
}

// caller is the local operator: no session and no server, so commands
// gated on Discord permissions are not shown.
func (a *app) caller() *command.Caller {
	return &command.Caller{
		Username: "cli",
		Prefix:   a.cfg.Prefixes[0],
		Prefixes: a.cfg.Prefixes,
	}
}

func (a *app) newChangelogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changelog [version]",
		Short: "Print the changelog of a version (default latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			l := base.ChangelogListing(a.cl, token, v.Release)
			return printListing(cmd.OutOrStdout(), l)
		},
	}
}

func (a *app) newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command...]",
		Short: "Print the bot's help listing, or the help of one command",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			h := help.New(v.AppName, a.reg)
			l, err := h.Describe(context.Background(), a.caller(), args)
			if errors.Is(err, command.ErrNotPermitted) {
				return fmt.Errorf("%q is not available outside Discord", strings.Join(args, " "))
			}
			if err != nil {
				return err
			}
			return printListing(cmd.OutOrStdout(), l)
		},
	}
}

func (a *app) newReadmeCmd() *cobra.Command {
	var (
		tmplPath string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "readme",
		Short: "Generate README.md with the command list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(); err != nil {
				return err
			}
			tmpl := help.DefaultReadmeTemplate
			data, err := os.ReadFile(tmplPath)
			switch {
			case err == nil:
				tmpl = string(data)
			case !errors.Is(err, fs.ErrNotExist):
				return err
			}

			var buf bytes.Buffer
			buckets := help.Catalog(a.reg.All())
			if err := help.WriteReadme(&buf, tmpl, v.AppName, v.AppDescription, buckets, a.cfg.Prefixes[0]); err != nil {
				return err
			}
			if outPath == "-" {
				_, err := buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s written\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&tmplPath, "template", "README.md.tmpl", "README template")
	cmd.Flags().StringVarP(&outPath, "output", "o", "README.md", "output file, - for stdout")
	return cmd
}

func printListing(w io.Writer, l *listing.Listing) error {
	_, err := io.WriteString(w, l.Markdown())
	return err
}
