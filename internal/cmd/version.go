package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/jimezsa/jobber/internal/store"
)

type VersionCmd struct{}

type versionInfo struct {
	Version string `json:"version"`
	Schema  int    `json:"schema"`
	Go      string `json:"go"`
}

func (v *VersionCmd) Run(ctx *Context) error {
	info := versionInfo{Version: ctx.Version, Schema: store.SchemaVersion, Go: runtime.Version()}
	if ctx.JSONOutput {
		return json.NewEncoder(ctx.Out).Encode(info)
	}
	_, err := fmt.Fprintf(ctx.Out, "jobber %s (schema %d, %s)\n", info.Version, info.Schema, info.Go)
	return err
}
