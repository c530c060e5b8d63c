// Copyright 2015 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/engine"
	"github.com/momemta/momemta-go/internal/xlog"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/modules"
	"github.com/momemta/momemta-go/momemta"
	"github.com/momemta/momemta-go/pluginloader"
	"github.com/momemta/momemta-go/registry"
)

func main() {
	defer func() {
		if mpi.Rank() == 0 {
			if err := recover(); err != nil {
				utl.PfRed("ERROR: %v\n", err)
				os.Exit(1)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	utl.PfWhite("\nmomemta-go -- Matrix Element Method engine\n\n")
	utl.Pf("Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.\n")
	utl.Pf("Use of this source code is governed by a BSD-style\n")
	utl.Pf("license that can be found in the LICENSE file.\n\n")

	if err := newRootCmd().Execute(); err != nil {
		utl.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{Use: "momemta"}
	root.AddCommand(newRunCmd(), newEvaluateCmd(), newPluginsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <config> <event.json>",
		Short: "Load a configuration, bind an event, and computeWeights",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, particles, met, err := openSession(args[0], args[1])
			if err != nil {
				return err
			}
			defer session.Close()

			weights, err := session.ComputeWeights(particles, met, momemta.DefaultIntegrationParams())
			if err != nil {
				return err
			}
			for i, w := range weights {
				if w.Err != nil {
					fmt.Printf("integrand[%d]: error: %v\n", i, w.Err)
					continue
				}
				fmt.Printf("integrand[%d]: %g\n", i, w.Value)
			}
			printStatus(session.Status())
			return nil
		},
	}
}

func newEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <config> <event.json> <point...>",
		Short: "setEvent + evaluateIntegrand for one phase-space point, bypassing the integrator",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, particles, met, err := openSession(args[0], args[1])
			if err != nil {
				return err
			}
			defer session.Close()

			point := make([]float64, 0, len(args)-2)
			for _, a := range args[2:] {
				x, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("parsing phase-space coordinate %q: %w", a, err)
				}
				point = append(point, x)
			}

			if err := session.SetEvent(particles, met); err != nil {
				return err
			}
			values, err := session.EvaluateIntegrand(point)
			if err != nil {
				return err
			}
			for i, v := range values {
				fmt.Printf("integrand[%d]: %g\n", i, v)
			}
			printStatus(session.Status())
			return nil
		},
	}
}

func newPluginsCmd() *cobra.Command {
	plugins := &cobra.Command{Use: "plugins", Short: "Inspect and load dynamic module plugins"}
	plugins.AddCommand(&cobra.Command{
		Use:   "load <path.so>",
		Short: "Load a plugin and list the registry contents afterwards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()
			if err := modules.RegisterBuiltins(reg); err != nil {
				return err
			}
			if err := pluginloader.New().Load(args[0], reg); err != nil {
				return err
			}
			for _, name := range reg.Names() {
				fmt.Println(name)
			}
			return nil
		},
	})
	return plugins
}

// eventFile is the on-disk shape of an event.json given to run/evaluate:
// a list of final-state particles plus an optional reconstructed MET.
type eventFile struct {
	Particles []struct {
		Px, Py, Pz, E float64
		Type          int
	} `json:"particles"`
	MET *struct {
		Px, Py, Pz, E float64
	} `json:"met"`
}

func loadEvent(path string) ([]lorentzvector.Particle, *lorentzvector.LorentzVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw eventFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	particles := make([]lorentzvector.Particle, len(raw.Particles))
	for i, p := range raw.Particles {
		particles[i] = lorentzvector.Particle{
			P4:   lorentzvector.New(p.Px, p.Py, p.Pz, p.E),
			Type: p.Type,
		}
	}

	var met *lorentzvector.LorentzVector
	if raw.MET != nil {
		v := lorentzvector.New(raw.MET.Px, raw.MET.Py, raw.MET.Pz, raw.MET.E)
		met = &v
	}
	return particles, met, nil
}

func openSession(configPath, eventPath string) (*momemta.Session, []lorentzvector.Particle, *lorentzvector.LorentzVector, error) {
	doc, err := config.LoadYAML(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	particles, met, err := loadEvent(eventPath)
	if err != nil {
		return nil, nil, nil, err
	}

	reg := registry.New()
	if err := modules.RegisterBuiltins(reg); err != nil {
		return nil, nil, nil, err
	}

	session, err := momemta.Open(reg, doc, xlog.New(true))
	if err != nil {
		return nil, nil, nil, err
	}
	return session, particles, met, nil
}

func printStatus(status engine.Status) {
	switch status {
	case engine.StatusSuccess:
		color.Green("status: %s\n", status)
	case engine.StatusAborted:
		color.Yellow("status: %s\n", status)
	default:
		color.Red("status: %s\n", status)
	}
}
