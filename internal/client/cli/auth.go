package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/taskora/taskora-cli/internal/client/api"
	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and tries to authenticate.
//
// On success it greets the user; on failure the reason is printed and the
// session stays anonymous. The password byte slice is securely wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.sessions.Login(ctx, session.Credentials{Email: email, Password: string(password)})
	if err != nil {
		printlnFn("Login failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s (%s)", u.FullName(), u.Role))
	return nil
}

// Register prompts for the new account's fields and attempts to create it.
// Role and phone are optional; an empty role lets the server pick its
// default. The password byte slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	firstName, err := getSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role (administrator/developer/client, empty for default)", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.sessions.Register(ctx, api.RegisterData{
		Email:     email,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
		Role:      session.Role(role),
		Phone:     phone,
	})
	if err != nil {
		printlnFn("Registration failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Welcome to Taskora, %s!", u.FullName()))
	return nil
}

// ForgotPassword requests a password reset link for an email address.
// The confirmation is intentionally generic so the command cannot be used
// to probe which accounts exist.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sessions.ForgotPassword(ctx, email); err != nil {
		printlnFn("Request failed:", err)
		return err
	}

	printlnFn("If the account exists, a reset link has been sent.")
	return nil
}

// ResetPassword sets a new password using a reset token from the email link.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter new password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.ResetPassword(ctx, token, string(password)); err != nil {
		printlnFn("Reset failed:", err)
		return err
	}

	printlnFn("Password updated, you can log in now.")
	return nil
}

// ChangePassword changes the password of the logged-in account. Both
// password buffers are securely wiped before returning.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(os.Stdout, "Current password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(os.Stdout, "New password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.sessions.ChangePassword(ctx, string(current), string(next)); err != nil {
		printlnFn("Change failed:", err)
		return err
	}

	printlnFn("Password changed.")
	return nil
}

// Logout ends the session on the server and clears the local state.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}
