package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/autotrack/autotrack/cmd/autotrack/commands"
	"github.com/autotrack/autotrack/pkg/api"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "config", Usage: "Path to config YAML file"}
}

func yesFlag() *cli.BoolFlag {
	return &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation prompt"}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	app := &cli.Command{
		Name:  "autotrack",
		Usage: "Track job applications from the terminal",
		Flags: []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Start a session",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
				Action: commands.LoginAction,
			},
			{
				Name:   "logout",
				Usage:  "End the session and forget the stored token",
				Flags:  []cli.Flag{configFlag()},
				Action: commands.LogoutAction,
			},
			{
				Name:  "signup",
				Usage: "Create an account",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "chat-id", Usage: "Telegram chat id (optional)"},
				},
				Action: commands.SignupAction,
			},
			{
				Name:   "whoami",
				Usage:  "Show the current session identity",
				Flags:  []cli.Flag{configFlag()},
				Action: commands.WhoamiAction,
			},
			{
				Name:   "status",
				Usage:  "Check the server is reachable",
				Flags:  []cli.Flag{configFlag()},
				Action: commands.StatusAction,
			},
			{
				Name:  "jobs",
				Usage: "Manage tracked jobs",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List tracked jobs",
						Flags: []cli.Flag{
							configFlag(),
							&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Filter by title, company or location"},
							&cli.BoolFlag{Name: "applied", Usage: "Only show applied jobs"},
						},
						Action: commands.JobsListAction,
					},
					{
						Name:  "add",
						Usage: "Track a new job",
						Flags: []cli.Flag{
							configFlag(),
							&cli.StringFlag{Name: "title", Required: true},
							&cli.StringFlag{Name: "company", Required: true},
							&cli.StringFlag{Name: "description", Required: true},
							&cli.StringFlag{Name: "link", Required: true, Usage: "URL of the posting"},
							&cli.StringFlag{Name: "location"},
							&cli.StringFlag{Name: "source"},
							&cli.BoolFlag{Name: "applied", Usage: "Mark as already applied"},
						},
						Action: commands.JobsAddAction,
					},
					{
						Name:      "show",
						Usage:     "Show one job",
						ArgsUsage: "<id>",
						Flags:     []cli.Flag{configFlag()},
						Action:    commands.JobsShowAction,
					},
					{
						Name:      "edit",
						Usage:     "Update fields of a job",
						ArgsUsage: "<id>",
						Flags: []cli.Flag{
							configFlag(),
							&cli.StringFlag{Name: "title"},
							&cli.StringFlag{Name: "company"},
							&cli.StringFlag{Name: "location"},
							&cli.StringFlag{Name: "description"},
							&cli.StringFlag{Name: "link"},
							&cli.StringFlag{Name: "source"},
							&cli.BoolFlag{Name: "applied"},
						},
						Action: commands.JobsEditAction,
					},
					{
						Name:      "rm",
						Usage:     "Delete a job",
						ArgsUsage: "<id>",
						Flags:     []cli.Flag{configFlag(), yesFlag()},
						Action:    commands.JobsRemoveAction,
					},
					{
						Name:   "stats",
						Usage:  "Show application stats",
						Flags:  []cli.Flag{configFlag()},
						Action: commands.JobsStatsAction,
					},
				},
			},
			{
				Name:  "skills",
				Usage: "Manage your skills list",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show saved skills",
						Flags:  []cli.Flag{configFlag()},
						Action: commands.SkillsShowAction,
					},
					{
						Name:  "set",
						Usage: "Replace the skills list",
						Flags: []cli.Flag{
							configFlag(),
							&cli.StringFlag{Name: "skills", Required: true, Usage: "Comma-separated list, e.g. \"Go,SQL\""},
						},
						Action: commands.SkillsSetAction,
					},
				},
			},
			{
				Name:  "telegram",
				Usage: "Manage the notification bot link",
				Commands: []*cli.Command{
					{
						Name:   "link",
						Usage:  "Generate a one-time connect link",
						Flags:  []cli.Flag{configFlag()},
						Action: commands.TelegramLinkAction,
					},
					{
						Name:   "status",
						Usage:  "Show whether a chat is connected",
						Flags:  []cli.Flag{configFlag()},
						Action: commands.TelegramStatusAction,
					},
					{
						Name:  "set",
						Usage: "Set the chat id manually",
						Flags: []cli.Flag{
							configFlag(),
							&cli.StringFlag{Name: "chat-id", Required: true},
						},
						Action: commands.TelegramSetAction,
					},
					{
						Name:   "disconnect",
						Usage:  "Clear the linked chat id",
						Flags:  []cli.Flag{configFlag(), yesFlag()},
						Action: commands.TelegramDisconnectAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
