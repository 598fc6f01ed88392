package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobber/internal/config"
	"github.com/jimezsa/jobber/internal/network"
)

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Validate proxies against a target URL."`
}

type ProxyCheckCmd struct {
	Target  string `help:"Target URL." default:"https://www.indeed.com"`
	Timeout int    `help:"Timeout in seconds." default:"15"`
	Proxies string `help:"Comma-separated proxy URLs." env:"JOBBER_PROXIES"`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	proxies, err := config.LoadProxies(p.Proxies)
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		return fmt.Errorf("no proxies configured")
	}

	runCtx, cancel := ctx.interruptible()
	defer cancel()

	results := make([]ProxyCheckResult, 0, len(proxies))
	for _, proxy := range proxies {
		result := ProxyCheckResult{Proxy: proxy}
		status, latency, err := p.check(runCtx, ctx, proxy)
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
		} else {
			result.Status = fmt.Sprintf("%d", status)
			result.LatencyMS = latency.Milliseconds()
		}
		results = append(results, result)
	}

	return writeProxyResults(ctx, results)
}

// check fetches Target through a single proxy, without throttling.
func (p *ProxyCheckCmd) check(runCtx context.Context, ctx *Context, proxy string) (int, time.Duration, error) {
	rotator, err := network.NewRotator([]string{proxy}, 5*time.Minute)
	if err != nil {
		return 0, 0, err
	}
	browserCfg := ctx.Config.Browser.Models([]string{proxy})
	browserCfg.RequestsPerSecond = 0
	client, err := network.NewClient(rotator, browserCfg)
	if err != nil {
		return 0, 0, err
	}

	reqCtx, cancel := context.WithTimeout(runCtx, time.Duration(p.Timeout)*time.Second)
	defer cancel()
	req, err := fhttp.NewRequestWithContext(reqCtx, fhttp.MethodGet, p.Target, nil)
	if err != nil {
		return 0, 0, err
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, time.Since(start), nil
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
