// Command rinksim simulates one game from a JSON document.
//
//	rinksim -input game.json -output result.json -seed 42
//	rinksim -trials 5000 < game.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xtding233/rinksim/internal/config"
	"github.com/xtding233/rinksim/internal/logger"
	"github.com/xtding233/rinksim/internal/roster"
	"github.com/xtding233/rinksim/internal/sim"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rinksim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		input    = fs.String("input", "-", "game document path, - for stdin")
		output   = fs.String("output", "-", "result path, - for stdout")
		seed     = fs.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
		tuning   = fs.String("tuning", "", "tuning YAML file")
		trials   = fs.Int("trials", 1, "games to play; more than one prints a summary")
		logLevel = fs.String("log-level", "warn", "log level")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logger.Init(*logLevel, "text", stderr).WithField("component", "cli")

	t := sim.DefaultTuning()
	if *tuning != "" {
		var err error
		if t, err = config.LoadFile(*tuning); err != nil {
			log.WithError(err).Error("load tuning")
			return 1
		}
	}

	in, err := readInput(*input, stdin)
	if err != nil {
		log.WithError(err).Error("read input")
		return 1
	}

	engine := sim.NewEngine(t, log)
	var out any
	if *trials > 1 {
		sum, err := sim.RunMonteCarlo(context.Background(), engine, in, *trials, *seed)
		if err != nil {
			log.WithError(err).Error("monte carlo")
			return 1
		}
		out = sum
	} else {
		out = engine.Simulate(in, sim.NewSeededRNG(*seed))
	}
	logger.WithGame(in.Home.Name, in.Away.Name).WithFields(logrus.Fields{
		"seed":   *seed,
		"trials": *trials,
	}).Info("simulation done")

	if err := writeOutput(*output, stdout, out); err != nil {
		log.WithError(err).Error("write output")
		return 1
	}
	return 0
}

func readInput(path string, stdin io.Reader) (*roster.GameInput, error) {
	if path == "-" {
		return roster.Decode(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return roster.Decode(f)
}

func writeOutput(path string, stdout io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
