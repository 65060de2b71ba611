// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/config"
)

// maxProbeBody caps how much of a probe response is read.
const maxProbeBody = 64 << 10

// ComponentStatus holds what a running instance reports about one listener.
type ComponentStatus struct {
	Component string `json:"component"`
	Addr      string `json:"addr"`
	Running   bool   `json:"running"`
	Health    string `json:"health,omitempty"`
	Version   string `json:"version,omitempty"`
	Uptime    string `json:"uptime,omitempty"`
	Error     string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
	timeout    time.Duration
}

// StatusDeps contains injectable dependencies for the status command.
type StatusDeps struct {
	// ConfigLoader builds the configuration.
	// Default: config.Load
	ConfigLoader func(opts config.LoadOptions) (*config.Config, error)

	// HTTPClient queries the running instance.
	// Default: an http.Client with the --timeout flag
	HTTPClient *http.Client
}

// newStatusCmd creates the status subcommand.
func newStatusCmd(flags *globalFlags, deps *StatusDeps) *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running Keyward instance",
		Long: `Query the API banner and the liveness and readiness probes of a running
instance, using the addresses from the configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, flags, cfg, deps)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 2*time.Second, "timeout for each probe")
	cmd.Flags().String("http-addr", "", "API address of the instance")
	cmd.Flags().String("metrics-addr", "", "metrics/health address of the instance")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, flags *globalFlags, cfg *statusConfig, deps *StatusDeps) error {
	loader := config.Load
	client := &http.Client{Timeout: cfg.timeout}
	if deps != nil {
		if deps.ConfigLoader != nil {
			loader = deps.ConfigLoader
		}
		if deps.HTTPClient != nil {
			client = deps.HTTPClient
		}
	}

	conf, err := loader(flags.loadOptions(cmd, true))
	if err != nil {
		return oops.With("operation", "load config").Wrap(err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	statuses := []ComponentStatus{
		queryAPI(ctx, client, dialAddr(conf.HTTP.Addr)),
		queryHealth(ctx, client, dialAddr(conf.Metrics.Addr)),
	}

	if cfg.jsonOutput {
		output, err := formatStatusJSON(statuses)
		if err != nil {
			return err
		}
		cmd.Println(output)
		return nil
	}
	cmd.Print(formatStatusTable(statuses))
	return nil
}

// dialAddr turns a listen address such as ":8080" into one a client can
// reach.
func dialAddr(listen string) string {
	if listen == "" {
		return ""
	}
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}

func queryAPI(ctx context.Context, client *http.Client, addr string) ComponentStatus {
	status := ComponentStatus{Component: "api", Addr: addr}
	if addr == "" {
		status.Error = "disabled"
		return status
	}

	code, body, err := get(ctx, client, "http://"+addr+"/")
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	status.Running = true
	if code != http.StatusOK {
		status.Health = fmt.Sprintf("http %d", code)
		return status
	}

	var banner struct {
		Version string `json:"version"`
		Uptime  string `json:"uptime"`
	}
	if err := json.Unmarshal(body, &banner); err != nil {
		status.Health = "unexpected response"
		return status
	}
	status.Health = "ok"
	status.Version = banner.Version
	status.Uptime = banner.Uptime
	return status
}

func queryHealth(ctx context.Context, client *http.Client, addr string) ComponentStatus {
	status := ComponentStatus{Component: "health", Addr: addr}
	if addr == "" {
		status.Error = "disabled"
		return status
	}

	code, _, err := get(ctx, client, "http://"+addr+"/healthz/liveness")
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	status.Running = code == http.StatusOK
	if !status.Running {
		status.Error = fmt.Sprintf("liveness returned %d", code)
		return status
	}

	code, _, err = get(ctx, client, "http://"+addr+"/healthz/readiness")
	switch {
	case err != nil:
		status.Health = "unknown"
	case code == http.StatusOK:
		status.Health = "ready"
	default:
		status.Health = "not ready"
	}
	return status
}

func get(ctx context.Context, client *http.Client, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(statuses []ComponentStatus) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "COMPONENT\tADDR\tSTATUS\tHEALTH\tVERSION\tUPTIME")
	_, _ = fmt.Fprintln(w, "---------\t----\t------\t------\t-------\t------")

	for _, st := range statuses {
		addr := orDash(st.Addr)
		if st.Running {
			_, _ = fmt.Fprintf(w, "%s\t%s\trunning\t%s\t%s\t%s\n",
				st.Component, addr, orDash(st.Health), orDash(st.Version), orDash(st.Uptime))
			continue
		}
		reason := "not running"
		if st.Error != "" {
			reason = st.Error
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\tstopped\t-\t-\t%s\n", st.Component, addr, reason)
	}

	_ = w.Flush()
	return buf.String()
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(statuses []ComponentStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", oops.Code("STATUS_FORMAT_FAILED").Wrap(err)
	}
	return string(data), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
