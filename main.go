package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	logFile    string
	verbose    bool
	seed       uint64
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "flowedit",
		Short:        "Build flowcharts in the terminal",
		Long:         `flowedit is an interactive flowchart editor. Place nodes and condition nodes, connect them, label the connections and drag everything around.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/"+defaultConfigName+")")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for node placement (0 picks one from the clock)")

	return cmd
}

func run(opts options) error {
	config, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	out, closeLog, err := openLogOutput(opts.logFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	level := log.InfoLevel
	if opts.verbose {
		level = log.DebugLevel
	}
	logger := newLogger(out, level)

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	logger.Info("starting editor", "ids", config.IDScheme, "seed", seed)

	p := tea.NewProgram(
		initialModel(config, logger, rng),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func initialModel(config *Config, logger *log.Logger, rng *rand.Rand) model {
	canvas := NewCanvas()
	graph := NewGraph(newIDGenerator(config.IDScheme))
	editor := NewEditor(graph, config.Layout(), WithRenderer(canvas), WithLogger(logger))
	canvas.Render(editor.Frame())

	return model{
		mode:     ModeNormal,
		editor:   editor,
		canvas:   canvas,
		rng:      rng,
		filename: "flowchart",
		config:   config,
		logger:   logger,
	}
}
