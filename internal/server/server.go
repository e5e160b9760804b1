// Package server exposes a replay session to agents over the Model Context
// Protocol.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/session"
	"github.com/mj1618/arena-access/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server around one session.
type Server struct {
	sess      *session.Session
	sessionMu sync.Mutex
	cache     *SceneCache
	mcp       *mcpserver.MCPServer
	log       *logging.Logger
}

// New creates an MCP server with every session tool registered.
func New(sess *session.Session, cfg Config, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NopLogger()
	}
	s := &Server{
		sess:  sess,
		cache: NewSceneCache(cfg.CacheTTL, nil),
		log:   log.WithSession(sess.ID()).WithComponent("server"),
	}
	s.mcp = mcpserver.NewMCPServer("arena-access", version.Version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	s.log.Info("serving", "transport", cfg.Transport, "port", cfg.Port)
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	// step
	s.mcp.AddTool(
		mcp.NewTool("step",
			mcp.WithDescription("Play one step: optionally switch scene, press keys for one frame, hold modifiers, and run a number of frames. Returns what was announced."),
			mcp.WithString("scene", mcp.Description("Scenario scene to show (omit to keep the live scene)")),
			mcp.WithString("keys", mcp.Description("Comma-separated keys pressed on the first frame (e.g. 'tab', 'enter', '1')")),
			mcp.WithString("held", mcp.Description("Comma-separated keys held for the whole step (e.g. 'shift', 'ctrl')")),
			mcp.WithNumber("frames", mcp.Description("Frames to run (default 1)")),
			mcp.WithNumber("advance", mcp.Description("Extra milliseconds added to the clock per frame")),
		),
		s.handleStep,
	)

	// next
	s.mcp.AddTool(
		mcp.NewTool("next",
			mcp.WithDescription("Play the next scripted step of the scenario"),
		),
		s.handleNext,
	)

	// run
	s.mcp.AddTool(
		mcp.NewTool("run",
			mcp.WithDescription("Play every remaining scripted step and return the full result"),
		),
		s.handleRun,
	)

	// state
	s.mcp.AddTool(
		mcp.NewTool("state",
			mcp.WithDescription("Show the session state: focus mode, active screen, open panels, target and discard modes, phase keys"),
		),
		s.handleState,
	)

	// announcements
	s.mcp.AddTool(
		mcp.NewTool("announcements",
			mcp.WithDescription("List announcements spoken so far"),
			mcp.WithNumber("since", mcp.Description("Only announcements with a sequence number above this")),
		),
		s.handleAnnouncements,
	)

	// scene
	s.mcp.AddTool(
		mcp.NewTool("scene",
			mcp.WithDescription("Flatten a scene into a list of objects with paths, roles and text"),
			mcp.WithString("name", mcp.Description("Scenario scene to inspect (omit for the live scene)")),
			mcp.WithBoolean("active-only", mcp.Description("Skip inactive branches")),
		),
		s.handleScene,
	)

	// actions
	s.mcp.AddTool(
		mcp.NewTool("actions",
			mcp.WithDescription("List clicks, focus moves and field activations sent to the game"),
		),
		s.handleActions,
	)
}
