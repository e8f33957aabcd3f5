package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discog/internal/shared"
)

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	r.logger.Info("config file created", "path", configPath)

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load created config: %w", err)
	}

	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set a contact address in musicbrainz.user_agent (currently %q)\n", config.MusicBrainz.UserAgent)
	r.writePlain("2. Add credentials under [services.pandora], [services.youtube] or [services.spotify]\n")
	r.writePlain("3. Run 'discog discography <service> \"<artist>\" --dry-run' to check matching\n")

	return nil
}
