package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	Scan    ScanCmd    `cmd:"" help:"Scan a search results page into the job store."`
	Enrich  EnrichCmd  `cmd:"" help:"Fetch detail pages for stored jobs."`
	Apply   ApplyCmd   `cmd:"" help:"Find a contact email for one job and send the application."`
	Run     RunCmd     `cmd:"" help:"Scan, enrich and apply in one pass."`
	Jobs    JobsCmd    `cmd:"" help:"Inspect the job store."`
	Secrets SecretsCmd `cmd:"" help:"Manage credentials in the OS keyring."`
	Proxies ProxiesCmd `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
