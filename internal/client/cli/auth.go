package cli

import (
	"context"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, an email and a password and creates the
// account. The server logs the new user in right away.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipe(password)

	u, err := a.authService.Register(ctx, userName, email, password)
	if err != nil {
		return err
	}
	a.todoService.Reset()
	printlnFn("Welcome,", u.UserName)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipe(password)

	u, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.todoService.Reset()
	printlnFn("Logged in as", u.UserName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.todoService.Reset()
	printlnFn("Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}
	printlnFn("Username:  ", u.UserName)
	printlnFn("Email:     ", u.Email)
	printlnFn("Verified:  ", u.IsVerified)
	printlnFn("Member since", u.CreatedAt.Format("2006-01-02"))
	return nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
