package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/arena-access/internal/platform/replay"
	"github.com/mj1618/arena-access/internal/server"
	"github.com/mj1618/arena-access/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve <scenario.yaml>",
	Short: "Start an MCP server driving a scenario step by step",
	Long: `Start a Model Context Protocol (MCP) server over one scenario session. Agents
press keys, switch scenes, and read back announcements and state through tools.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  arena-access serve login.yaml
  arena-access serve login.yaml --transport streamable-http --port 8080
  arena-access serve login.yaml --cache-ttl 0`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, streamable-http (default from config)")
	serveCmd.Flags().Int("port", 0, "HTTP port for streamable-http transport (default from config)")
	serveCmd.Flags().Int("cache-ttl", -1, "Scene cache TTL in milliseconds (0 to disable, default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	srvCfg := server.Config{
		Transport: cfg.Server.Transport,
		Port:      cfg.Server.Port,
		CacheTTL:  cfg.Server.SceneCacheTTL(),
	}
	if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
		srvCfg.Transport = transport
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		srvCfg.Port = port
	}
	if ttl, _ := cmd.Flags().GetInt("cache-ttl"); ttl >= 0 {
		srvCfg.CacheTTL = time.Duration(ttl) * time.Millisecond
	}

	sc, err := replay.Load(args[0])
	if err != nil {
		return err
	}
	sess, err := session.New(sc, session.Options{Config: cfg, Log: log})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return server.New(sess, srvCfg, log).Serve(srvCfg)
}
