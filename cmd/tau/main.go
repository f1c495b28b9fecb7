// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Command tau reads a TML-style program from standard input (or
--file), runs the PFP driver to completion, and prints "unsat" on
oscillation or the resulting database otherwise.
*/
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tamlang/tau/engine"
	"github.com/tamlang/tau/lang"
	tmetrics "github.com/tamlang/tau/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		file        string
		limit       int
		metricsAddr string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "tau",
		Short: "Run a TML-style PFP Datalog program to a fixed point",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := hclog.New(&hclog.LoggerOptions{
				Name:  "tau",
				Level: hclog.LevelFromString(logLevel),
			})

			var in io.Reader = os.Stdin
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("tau: %w", err)
				}
				defer f.Close()
				in = f
			}
			src, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("tau: reading program: %w", err)
			}

			prog, err := lang.Read(string(src), lang.WithLogger(log))
			if err != nil {
				return fmt.Errorf("tau: %w", err)
			}

			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(tmetrics.New(prog.Store, prog.Driver))
				srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
				go func() {
					log.Info("serving metrics", "addr", metricsAddr)
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Error("metrics server stopped", "err", err)
					}
				}()
			}

			outcome, err := prog.Driver.PFP(limit, nil)
			if err != nil {
				return fmt.Errorf("tau: %w", err)
			}

			switch outcome {
			case engine.SAT:
				return prog.Driver.Dump(cmd.OutOrStdout(), prog.Dict)
			case engine.UNSAT:
				fmt.Fprintln(cmd.OutOrStdout(), "unsat")
				return nil
			default:
				return fmt.Errorf("tau: interrupted after %d steps without reaching a fixed point", prog.Driver.Steps())
			}
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read the program from this file instead of stdin")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of PFP steps (0 means unbounded)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics at this address while running")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	return cmd
}
