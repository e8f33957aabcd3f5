// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discog/internal/musicbrainz"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
	}
}

func thresholdFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "match-threshold",
		Usage: "Minimum MusicBrainz search score (1-100)",
		Value: musicbrainz.DefaultThreshold,
	}
}

// playlistFlags are shared by the discography and similar commands.
func playlistFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		verboseFlag(),
		thresholdFlag(),
		&cli.StringFlag{
			Name:  "auth",
			Usage: "Service token (Pandora auth token, YouTube Music auth file, Spotify access token)",
		},
		&cli.StringFlag{
			Name:  "sort-field",
			Usage: "Sort releases by release, name, type or subtypes",
			Value: string(musicbrainz.SortRelease),
		},
		&cli.StringFlag{
			Name:  "sort-order",
			Usage: "Sort order: asc or desc",
			Value: "asc",
		},
		&cli.BoolFlag{Name: "no-sort", Usage: "Keep MusicBrainz order"},
		&cli.BoolFlag{Name: "include-compilations", Usage: "Include compilations"},
		&cli.BoolFlag{Name: "include-remixes", Usage: "Include remix albums"},
		&cli.BoolFlag{Name: "include-live", Usage: "Include live albums"},
		&cli.BoolFlag{Name: "include-soundtracks", Usage: "Include soundtracks"},
		&cli.BoolFlag{Name: "include-eps", Usage: "Include EPs"},
		&cli.BoolFlag{Name: "include-singles", Usage: "Include singles"},
		&cli.BoolFlag{Name: "include-all", Usage: "Include every release type"},
		&cli.StringFlag{
			Name:  "name",
			Usage: `Playlist name format, "{artist}" is replaced by the artist`,
		},
		&cli.BoolFlag{Name: "dry-run", Usage: "Match releases without creating the playlist"},
		&cli.BoolFlag{Name: "json", Usage: "Output the run report as JSON"},
		&cli.StringFlag{
			Name:    "report",
			Aliases: []string{"o"},
			Usage:   "Write the run report to a .csv, .md or .txt file",
		},
		&cli.BoolFlag{Name: "prompt", Usage: "Choose between artists with a line prompt instead of the list view"},
	}
}

func playlistArgs() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{Name: "service"},
		&cli.StringArg{Name: "artist"},
	}
}

// discographyCommand builds an artist's discography playlist
func discographyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "discography",
		Aliases:   []string{"disco"},
		Usage:     "Create a playlist with an artist's full discography",
		ArgsUsage: "<service> <artist>",
		Arguments: playlistArgs(),
		Flags:     playlistFlags(),
		Action:    r.Discography,
	}
}

// similarCommand builds a playlist from an artist's similar artists
func similarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:        "similar",
		Usage:       "Create a playlist with the discographies of similar artists",
		Description: "Spotify only serves related artists to apps registered before November 2024; newer apps fail with an API error.",
		ArgsUsage:   "<service> <artist>",
		Arguments:   playlistArgs(),
		Flags:       playlistFlags(),
		Action:      r.Similar,
	}
}

// artistCommand handles MusicBrainz artist lookups
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "MusicBrainz artist lookups",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search MusicBrainz artists",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					configFlag(),
					verboseFlag(),
					thresholdFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.ArtistSearch,
			},
			{
				Name:      "links",
				Usage:     "Show an artist's external links (streaming services, homepages)",
				ArgsUsage: "<mbid>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "mbid"}},
				Flags: []cli.Flag{
					configFlag(),
					verboseFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.ArtistLinks,
			},
		},
	}
}

// servicesCommand lists target services
func servicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "services",
		Usage:  "List supported streaming services",
		Action: r.Services,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}
