package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func LoginAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if err := ac.Session.Login(ctx, cmd.String("username"), cmd.String("password")); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", cmd.String("username"))
	return nil
}

func LogoutAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	ac.Session.Logout(ctx)
	fmt.Println("Logged out")
	return nil
}

func SignupAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	resp, err := ac.Session.Signup(ctx,
		cmd.String("username"),
		cmd.String("email"),
		cmd.String("password"),
		cmd.String("chat-id"),
	)
	if err != nil {
		return err
	}

	fmt.Println(resp.Message)
	fmt.Println("Now run `autotrack login` to start a session.")
	return nil
}

func WhoamiAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	if !ac.Session.Authenticated() {
		fmt.Println("Not logged in")
		return nil
	}

	if name, ok := ac.Session.Username(ctx); ok {
		fmt.Printf("Logged in as %s\n", name)
	} else {
		fmt.Println("Logged in (identity not readable from token)")
	}
	return nil
}

func StatusAction(ctx context.Context, cmd *cli.Command) error {
	ac, err := NewAppContext(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer ac.Close()

	resp, err := ac.Client.Health(ctx)
	if err != nil {
		return err
	}

	fmt.Println(resp.Message)
	return nil
}
