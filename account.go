package main

import (
	"context"
	"fmt"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

type RegisterParams struct {
	GlobalParams
	Email    string `descr:"Email address" positional:"true"`
	Name     string `descr:"Display name (default: part of the email before @)" optional:"true"`
	Password string `descr:"Password (prompted when omitted)" optional:"true"`
}

func registerCmd(ctx context.Context) boa.CmdT[RegisterParams] {
	return boa.CmdT[RegisterParams]{
		Use:   "register",
		Short: "Create a local account and log in",
		RunFunc: func(params *RegisterParams, _ *cobra.Command, _ []string) {
			app := openApp(ctx, params.GlobalParams)
			defer app.Close()

			password := params.Password
			if password == "" {
				password = prompt("Password: ")
			}
			user, err := app.Accounts.Register(ctx, params.Email, password, params.Name)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Registered and logged in as %s <%s>\n", user.Name, user.Email)
		},
	}
}

type LoginParams struct {
	GlobalParams
	Email    string `descr:"Email address" positional:"true"`
	Password string `descr:"Password (prompted when omitted)" optional:"true"`
}

func loginCmd(ctx context.Context) boa.CmdT[LoginParams] {
	return boa.CmdT[LoginParams]{
		Use:   "login",
		Short: "Log in to an existing account",
		RunFunc: func(params *LoginParams, _ *cobra.Command, _ []string) {
			app := openApp(ctx, params.GlobalParams)
			defer app.Close()

			password := params.Password
			if password == "" {
				password = prompt("Password: ")
			}
			user, err := app.Accounts.Login(ctx, params.Email, password)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
		},
	}
}

func logoutCmd(ctx context.Context) boa.CmdT[GlobalParams] {
	return boa.CmdT[GlobalParams]{
		Use:   "logout",
		Short: "Forget the current login",
		RunFunc: func(params *GlobalParams, _ *cobra.Command, _ []string) {
			app := openApp(ctx, *params)
			defer app.Close()

			if err := app.Accounts.Logout(); err != nil {
				fail(err)
			}
			fmt.Println("Logged out")
		},
	}
}

func whoamiCmd(ctx context.Context) boa.CmdT[GlobalParams] {
	return boa.CmdT[GlobalParams]{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunFunc: func(params *GlobalParams, _ *cobra.Command, _ []string) {
			app := openApp(ctx, *params)
			defer app.Close()

			user, err := app.Accounts.Current()
			if err != nil {
				fail(err)
			}
			fmt.Printf("%s <%s>\n", user.Name, user.Email)
		},
	}
}
