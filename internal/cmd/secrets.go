package cmd

import (
	"errors"

	"github.com/jimezsa/jobber/internal/mailer"
)

type SecretsCmd struct {
	SetSMTP    SetSMTPCmd    `cmd:"" name:"set-smtp" help:"Store the SMTP password in the OS keyring."`
	DeleteSMTP DeleteSMTPCmd `cmd:"" name:"delete-smtp" help:"Remove the SMTP password from the OS keyring."`
}

type SetSMTPCmd struct {
	Password string `help:"Password to store. Prompted for when empty."`
}

type DeleteSMTPCmd struct{}

func (s *SetSMTPCmd) Run(ctx *Context) error {
	if ctx.Config.SMTP.Username == "" || ctx.Config.SMTP.Host == "" {
		return errors.New("set smtp.username and smtp.host before storing a password")
	}
	password := s.Password
	if password == "" {
		var err error
		password, err = ctx.UI.Secret("SMTP password")
		if err != nil {
			return err
		}
	}
	account := ctx.keyringAccount()
	if err := mailer.SetPassword(account, password); err != nil {
		return err
	}
	ctx.UI.Successf("Stored password for %s", account)
	return nil
}

func (d *DeleteSMTPCmd) Run(ctx *Context) error {
	account := ctx.keyringAccount()
	if err := mailer.DeletePassword(account); err != nil {
		return err
	}
	ctx.UI.Successf("Deleted password for %s", account)
	return nil
}
