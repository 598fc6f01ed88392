package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jimezsa/jobber/internal/apply"
	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/config"
	"github.com/jimezsa/jobber/internal/coverletter"
	"github.com/jimezsa/jobber/internal/mailer"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/network"
	"github.com/jimezsa/jobber/internal/resume"
	"github.com/jimezsa/jobber/internal/store"
	"github.com/jimezsa/jobber/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode
}

// interruptible returns a context cancelled on Ctrl-C.
func (c *Context) interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func (c *Context) openStore(ctx context.Context) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(c.Config.DatabasePath), 0o755); err != nil {
		return nil, err
	}
	return store.Open(ctx, c.Config.DatabasePath)
}

func (c *Context) newSession(proxiesFlag string) (browser.Session, error) {
	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}
	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 5*time.Minute)
		if err != nil {
			return nil, err
		}
	}
	browserCfg := c.Config.Browser.Models(proxies)
	client, err := network.NewClient(rotator, browserCfg)
	if err != nil {
		return nil, err
	}
	return browser.WithTimeout(browser.NewHTTPSession(client), browserCfg.Timeout), nil
}

func (c *Context) agentOptions() apply.Options {
	return apply.Options{
		MaxOutlinks:     c.Config.Apply.MaxOutlinks,
		SkipUnreachable: c.Config.Apply.SkipUnreachable,
		Matcher:         apply.Matcher{Mailto: c.Config.Apply.MatchMailto},
	}
}

func (c *Context) sender(dryRun bool) (apply.Sender, error) {
	if dryRun {
		return apply.DryRun{Logger: c.Logger}, nil
	}
	smtpCfg := c.Config.SMTP
	if err := smtpCfg.Validate(); err != nil {
		return nil, err
	}
	password, err := mailer.ResolvePassword(c.keyringAccount())
	if err != nil {
		return nil, err
	}
	transport := mailer.SMTP{
		Host:     smtpCfg.Host,
		Port:     smtpCfg.Port,
		Username: smtpCfg.Username,
		Password: password,
	}
	return mailer.New(mailer.Config{From: smtpCfg.From, SenderName: smtpCfg.SenderName}, transport), nil
}

func (c *Context) keyringAccount() string {
	if c.Config.SMTP.KeyringAccount != "" {
		return c.Config.SMTP.KeyringAccount
	}
	return mailer.KeyringAccount(c.Config.SMTP.Username, c.Config.SMTP.Host)
}

func (c *Context) profile() (models.Profile, error) {
	return resume.LoadProfile(c.Config.Artifacts.ProfilePath)
}

func (c *Context) letters(profile models.Profile, autoApprove bool) (*coverletter.Letters, error) {
	openaiCfg := c.Config.OpenAI
	generator, err := coverletter.NewOpenAI(openaiCfg.APIKey, openaiCfg.Model)
	if err != nil {
		return nil, err
	}
	var budget *coverletter.Budget
	if openaiCfg.MaxDescriptionTokens > 0 {
		budget, err = coverletter.NewBudget(openaiCfg.MaxDescriptionTokens)
		if err != nil {
			return nil, err
		}
	}
	var approver coverletter.Approver = coverletter.AutoApprove{}
	if !autoApprove {
		approver = terminalApprover{ui: c.UI}
	}
	return &coverletter.Letters{
		Generator: generator,
		Approver:  approver,
		Converter: coverletter.PDFCommand{
			Path:       c.Config.Artifacts.PDFCommand,
			Stylesheet: c.Config.Artifacts.PDFStylesheet,
		},
		Profile:     profile,
		Dir:         c.Config.Artifacts.Dir,
		MaxAttempts: openaiCfg.MaxAttempts,
		Budget:      budget,
		Logger:      c.Logger,
	}, nil
}

func (c *Context) buildResume(ctx context.Context, profile models.Profile) (string, error) {
	builder := resume.Builder{
		Command: c.Config.Artifacts.ResumeCommand,
		Theme:   c.Config.Artifacts.ResumeTheme,
		Dir:     c.Config.Artifacts.Dir,
		Logger:  c.Logger,
	}
	return builder.Build(ctx, profile)
}

// terminalApprover shows each generated letter and asks before using it.
type terminalApprover struct {
	ui *ui.UI
}

func (a terminalApprover) Approve(_ context.Context, job models.Job, letter string) (bool, error) {
	a.ui.Infof("\nCover letter for %s:\n", job.Title)
	a.ui.Infof("%s\n", letter)
	return a.ui.Confirm("Is the cover letter okay?")
}
