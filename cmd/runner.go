package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discog/internal/musicbrainz"
	"github.com/desertthunder/discog/internal/services"
	"github.com/desertthunder/discog/internal/shared"
	"github.com/desertthunder/discog/internal/tasks"
	"github.com/desertthunder/discog/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	registry   *services.Registry
	chooser    tasks.Chooser
	httpClient *http.Client
	logger     *log.Logger
	input      io.Reader
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Registry   *services.Registry
	Chooser    tasks.Chooser // overrides the list and prompt choosers
	HTTPClient *http.Client  // used for MusicBrainz requests
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Registry == nil {
		opts.Registry = services.Default()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		registry:   opts.Registry,
		chooser:    opts.Chooser,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		discographyCommand, similarCommand, artistCommand, servicesCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure returns the config for cmd. An explicit --config is loaded and has the environment
// applied; otherwise the config the runner was built with is used.
func (r *Runner) configure(cmd *cli.Command) (*shared.Config, error) {
	if !cmd.IsSet("config") {
		return r.config, nil
	}

	path := cmd.String("config")
	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	shared.ApplyEnv(config)
	return config, nil
}

// commandLogger returns a logger for one command run, at debug level with --verbose.
func (r *Runner) commandLogger(cmd *cli.Command, kv ...any) *log.Logger {
	logger := shared.WithLogger(r.logger, kv...)
	if cmd.Bool("verbose") {
		shared.SetLogLevel(logger, log.DebugLevel)
	}
	return logger
}

func (r *Runner) musicBrainz(config *shared.Config, logger *log.Logger) *musicbrainz.Client {
	opts := musicbrainz.OptionsFromConfig(config.MusicBrainz, logger)
	opts.HTTPClient = r.httpClient
	return musicbrainz.New(opts)
}

// chooserFor picks how ambiguous artists are resolved: an injected chooser, the line prompt
// with --prompt, or the list view.
func (r *Runner) chooserFor(cmd *cli.Command) tasks.Chooser {
	switch {
	case r.chooser != nil:
		return r.chooser
	case cmd.Bool("prompt"):
		return ui.NewPromptChooser(r.input, r.output)
	default:
		return ui.ListChooser{}
	}
}

func (r *Runner) threshold(cmd *cli.Command, config *shared.Config) (int, error) {
	threshold := config.MusicBrainz.MatchThreshold
	if cmd.IsSet("match-threshold") {
		threshold = cmd.Int("match-threshold")
	}
	if threshold < 1 || threshold > 100 {
		return 0, fmt.Errorf("%w: match-threshold must be between 1 and 100, got %d", shared.ErrInvalidFlag, threshold)
	}
	return threshold, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
