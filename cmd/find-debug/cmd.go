package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vietanhduong/debugfind/pkg/config"
	"github.com/vietanhduong/debugfind/pkg/locate"
	"github.com/vietanhduong/debugfind/pkg/logging"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

var errMissing = errors.New("debug file not found")

func newCommand() *cobra.Command {
	var (
		pids        []int
		outputType  string
		failMissing bool
	)

	this := &cobra.Command{
		Use:   "find-debug [binary...]",
		Short: "Locate the separate debug information file of compiled binaries.",
		Long: `
Locate the separate debug information file of compiled binaries: dSYM bundles
for Mach-O, PDB files for PE and build-id or debuglink debug files for ELF.
With --pid, every file mapped executable by the given processes is resolved.
		`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(pids) == 0 {
				return fmt.Errorf("a binary path or --pid is required")
			}
			if outputType != outputText && outputType != outputJSON {
				return fmt.Errorf("invalid --output %q, must be one of %q or %q", outputType, outputText, outputJSON)
			}

			v, err := config.New(cmd.Flags())
			if err != nil {
				return err
			}
			logging.SetupLoggingWithViper(v)
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log := logging.DefaultLogger.WithField(logfields.LogComponent, "cmd")

			loc := locate.New(cfg.LocatorOptions()...)
			var entries []entry
			for _, path := range args {
				entries = append(entries, resolve(loc, path))
			}
			if len(pids) > 0 {
				pidEntries, err := resolvePids(loc, cfg, pids)
				if err != nil {
					return err
				}
				entries = append(entries, pidEntries...)
			}
			log.Debugf("Resolved %d binaries", len(entries))

			if err = printEntries(cmd.OutOrStdout(), outputType, entries); err != nil {
				return err
			}
			if failMissing {
				for _, e := range entries {
					if e.DebugFile == "" {
						return fmt.Errorf("%s: %w", e.Binary, errMissing)
					}
				}
			}
			return nil
		},
	}

	config.RegisterFlags(this.Flags())
	this.Flags().IntSliceVarP(&pids, "pid", "p", nil, "Resolve the modules mapped by these processes (linux only).")
	this.Flags().StringVarP(&outputType, "output", "o", outputText, "Output format. Must be 'text' or 'json'.")
	this.Flags().BoolVar(&failMissing, "fail-missing", false, "Exit non-zero when a debug file is not found.")
	return this
}

func resolve(loc *locate.Locator, path string) entry {
	e := entry{Binary: path}
	res, err := loc.LocateFile(path)
	if err != nil {
		e.Error = err.Error()
		return e
	}
	e.DebugFile, e.Strategy = res.Path, res.Strategy
	return e
}
