// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/curator/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "curator",
		Usage: "Resource ranking and task prioritization for early-stage founders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"CURATOR_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error); overrides the config file",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Disable remote embedding and generation; heuristic ranking only",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (defaults to server.addr)",
					},
				},
			},
			{
				Name:   "recommend",
				Usage:  "Rank catalog resources for a task",
				Action: recommendCommand,
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Task title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Task type (product, market, finance, team, other)",
						Value: "other",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Task description",
					},
					&cli.StringSliceFlag{
						Name:  "liked-tag",
						Usage: "Liked tag (repeatable); defaults to the user's ledger",
					},
					&cli.Int64SliceFlag{
						Name:  "exclude",
						Usage: "Resource id to exclude (repeatable)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of resources to return",
						Value: 5,
					},
				},
			},
			{
				Name:   "prioritize",
				Usage:  "Order tasks by priority",
				Action: prioritizeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "JSON file holding a task array, or - for stdin",
						Required: true,
					},
				},
			},
			{
				Name:   "decompose",
				Usage:  "Split a task into subtasks",
				Action: decomposeCommand,
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Task title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Task description",
					},
				},
			},
			{
				Name:   "interact",
				Usage:  "Record a click, like, dislike or ignore",
				Action: interactCommand,
				Flags: []cli.Flag{
					userFlag(),
					resourceFlag(true),
					&cli.StringFlag{
						Name:     "action",
						Aliases:  []string{"a"},
						Usage:    "Action (click, like, dislike, ignore)",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Resource tag to cache for liked-tag lookups (repeatable)",
					},
				},
			},
			{
				Name:   "usage",
				Usage:  "Show the user's quota status for the current month",
				Action: usageCommand,
				Flags:  []cli.Flag{userFlag()},
			},
			{
				Name:   "feedback",
				Usage:  "List stored like/dislike feedback",
				Action: feedbackCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Filter by user id",
					},
					resourceFlag(false),
				},
			},
			{
				Name:   "precompute",
				Usage:  "Embed the plain catalog and write the enriched catalog",
				Action: precomputeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "in",
						Usage: "Plain catalog file (defaults to catalog.plain)",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Enriched catalog file (defaults to catalog.enriched)",
					},
					&cli.StringFlag{
						Name:  "previous",
						Usage: "Previous enriched catalog whose unchanged vectors are reused",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of resources to embed in each request",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N resources",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed requests",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "User id",
		Required: true,
	}
}

func resourceFlag(required bool) cli.Flag {
	return &cli.Int64Flag{
		Name:     "resource",
		Aliases:  []string{"r"},
		Usage:    "Resource id",
		Required: required,
	}
}

// setup loads configuration and installs the default logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.Bool("offline") {
		cfg.AI.Offline = true
	}

	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func loadedConfig(c *cli.Context) (*config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}
