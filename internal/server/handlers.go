package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform/replay"
)

// liveSceneKey caches the live scene apart from scenario snapshots.
const liveSceneKey = ""

// resultToText serializes a tool result to YAML for MCP response.
func resultToText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

// stepHandler wraps a session call: locks the session, plays, invalidates the live scene.
func (s *Server) stepHandler(fn func() (any, error)) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	result, err := fn()
	s.cache.InvalidateScene(liveSceneKey)
	if err != nil {
		s.log.Warn("step failed", "error", err)
		if result == nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("%serror: %s", resultToText(result), err)), nil
	}
	return mcp.NewToolResultText(resultToText(result)), nil
}

func (s *Server) handleStep(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	st, err := replay.ParseStep(
		stringParam(params, "scene", ""),
		listParam(params, "keys"),
		listParam(params, "held"),
		intParam(params, "frames", 1),
		durationMsParam(params, "advance"),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.stepHandler(func() (any, error) {
		res, err := s.sess.Step(st)
		return res, err
	})
}

func (s *Server) handleNext(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.stepHandler(func() (any, error) {
		res, ok, err := s.sess.Next()
		if err != nil {
			return res, err
		}
		if !ok {
			return nil, fmt.Errorf("no scripted steps remain")
		}
		return res, nil
	})
}

func (s *Server) handleRun(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.stepHandler(func() (any, error) {
		res, err := s.sess.Run()
		return res, err
	})
}

func (s *Server) handleState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	return mcp.NewToolResultText(resultToText(s.sess.State())), nil
}

func (s *Server) handleAnnouncements(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since := intParam(request.GetArguments(), "since", 0)

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	entries := s.sess.Since(since)
	if len(entries) == 0 {
		return mcp.NewToolResultText("[]\n"), nil
	}
	return mcp.NewToolResultText(resultToText(entries)), nil
}

func (s *Server) handleScene(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	name := stringParam(params, "name", "")
	activeOnly := boolParam(params, "active-only", false)

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	read := func() (*model.Scene, error) {
		if name != liveSceneKey {
			return s.sess.Snapshot(name)
		}
		if sc := s.sess.Scene(); sc != nil {
			return sc, nil
		}
		return nil, fmt.Errorf("no scene loaded yet (scenes: %v)", s.sess.SceneKeys())
	}
	objects, err := s.cache.Flatten(name, activeOnly, read)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resultToText(objects)), nil
}

func (s *Server) handleActions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	actions := s.sess.Actions()
	if len(actions) == 0 {
		return mcp.NewToolResultText("[]\n"), nil
	}
	return mcp.NewToolResultText(resultToText(actions)), nil
}
