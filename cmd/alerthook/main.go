package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/alerthook/alerthook/diagnostic"
	"github.com/alerthook/alerthook/services/discord"
)

func main() {
	app := &cli.App{
		Name:  "alerthook",
		Usage: "send alert notifications to a webhook messaging platform",
		Commands: []*cli.Command{
			sendCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "E!", err)
		os.Exit(1)
	}
}

// Config represents the configuration format for the alerthook binary.
type Config struct {
	Logging diagnostic.Config `toml:"logging"`
	Discord discord.Config    `toml:"discord"`
}

func NewConfig() Config {
	return Config{
		Logging: diagnostic.NewConfig(),
		Discord: discord.NewConfig(),
	}
}

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "post a single alert to the configured webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML configuration file",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "webhook URL, overrides the config file",
			},
			&cli.StringFlag{
				Name:     "title",
				Usage:    "alert title",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "alert message body",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "structured context as a JSON object",
			},
		},
		Action: doSend,
	}
}

func doSend(c *cli.Context) error {
	conf := NewConfig()
	if path := c.String("config"); path != "" {
		if _, err := toml.DecodeFile(path, &conf); err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}
	if url := c.String("url"); url != "" {
		conf.Discord.URL = url
		conf.Discord.Enabled = true
	}

	var data map[string]interface{}
	if raw := c.String("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return errors.Wrap(err, "data must be a JSON object")
		}
	}

	diagService := diagnostic.NewService(conf.Logging, os.Stderr)
	defer diagService.Close()

	svc, err := discord.NewService(conf.Discord, diagService.NewDiscordHandler())
	if err != nil {
		return err
	}
	defer svc.Close()

	// Dispatch synchronously so the exit code reflects delivery.
	return svc.Alert(c.String("title"), c.String("message"), data, "", "")
}
