package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/client/client"
	"github.com/dmitrijs2005/devconnector/internal/common"
)

// Register prompts for name, email and password and creates an account. On
// success the session is logged in as the new user. The password byte slice
// is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := a.prompt.Line("Name")
	if err != nil {
		return err
	}
	email, err := a.prompt.Email("Email")
	if err != nil {
		return err
	}

	password, err := a.prompt.Password("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, name, email, string(password)); err != nil {
		a.report("Registration failed", err)
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and stores the returned token for the
// session. A failed attempt leaves the previous session untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := a.prompt.Email("Email")
	if err != nil {
		return err
	}

	password, err := a.prompt.Password("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, email, string(password)); err != nil {
		a.report("Login unsuccessful", err)
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Me prints the profile of the logged-in user.
func (a *App) Me(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		a.report("Cannot load profile", err)
		return err
	}

	fmt.Fprintf(a.out, "ID:      %s\nName:    %s\nEmail:   %s\nAvatar:  %s\nJoined:  %s\n",
		u.ID, u.Name, u.Email, u.Avatar, u.Date.Local().Format("2006-01-02 15:04"))
	return nil
}

// Logout forgets the session token.
func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) report(prefix string, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		for _, m := range apiErr.Messages {
			fmt.Fprintf(a.out, "%s: %s\n", prefix, m)
		}
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintf(a.out, "%s: not logged in or session expired\n", prefix)
	default:
		fmt.Fprintf(a.out, "%s: %v\n", prefix, err)
	}
}
