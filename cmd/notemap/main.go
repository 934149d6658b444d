package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/notemap/notemap/internal/app"
	"github.com/notemap/notemap/internal/logging"
)

func run(ctx context.Context, cmd *cli.Command) error {
	if lvl := cmd.String("log-level"); lvl != "" {
		logging.SetLevel(lvl)
	}

	m, err := app.New(app.Options{
		ConfigDir: cmd.String("config"),
		MapPath:   cmd.Args().First(),
	})
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "notemap",
		Usage:     "Keyboard-driven canvas for notes and the arrows between them",
		ArgsUsage: "[map file]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Directory holding settings.json and the recent-map list",
				Sources: cli.EnvVars("NOTEMAP_CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log verbosity: debug, info, warn, error",
				Sources: cli.EnvVars("NOTEMAP_LOG_LEVEL"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "notemap:", err)
		os.Exit(1)
	}
}
