package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

func SkillsShowAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	p, err := ac.Profile.Load(ctx)
	if err != nil {
		return err
	}

	if len(p.Skills) == 0 {
		fmt.Println("No skills set")
		return nil
	}
	fmt.Println(strings.Join(p.Skills, ", "))
	return nil
}

func SkillsSetAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	skills := strings.Split(cmd.String("skills"), ",")
	saved, err := ac.Profile.SaveSkills(ctx, skills)
	if err != nil {
		return err
	}

	fmt.Printf("Skills saved: %s\n", strings.Join(saved, ", "))
	return nil
}

func TelegramLinkAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	link, err := ac.Profile.RequestLink(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Open this link to connect @%s:\n\n  %s\n\n", link.BotUsername, link.Link)
	fmt.Println("The link is single-use. Check `autotrack telegram status` after opening it.")
	return nil
}

func TelegramStatusAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	p, err := ac.Profile.Load(ctx)
	if err != nil {
		return err
	}

	if p.Linked() {
		fmt.Printf("Connected (chat id %s)\n", p.TelegramChatID)
	} else {
		fmt.Println("Not connected")
	}
	return nil
}

func TelegramSetAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	if err := ac.Profile.SetChatID(ctx, cmd.String("chat-id")); err != nil {
		return err
	}

	fmt.Println("Chat id saved")
	return nil
}

func TelegramDisconnectAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.RequireAuth(); err != nil {
		return err
	}

	if !Confirm("Disconnect Telegram? You will no longer receive notifications.", cmd.Bool("yes")) {
		fmt.Println("Aborted")
		return nil
	}

	if err := ac.Profile.Disconnect(ctx); err != nil {
		return err
	}

	fmt.Println("Telegram disconnected")
	return nil
}
