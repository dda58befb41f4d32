package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// handleMessage sends one raw JSON-RPC message through the mcp-go server and
// returns the response decoded into a generic map.
func handleMessage(t *testing.T, s *Server, raw string) map[string]any {
	t.Helper()
	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(raw))
	if resp == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return out
}

const initializeRequest = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.cache == nil {
		t.Fatal("New did not initialize image cache")
	}
	if s.MCPServer() == nil {
		t.Fatal("New did not create the MCP server")
	}
	if err := s.base.Validate(); err != nil {
		t.Errorf("default base config invalid: %v", err)
	}
}

func TestInitialize(t *testing.T) {
	s := New(WithVersion("1.2.3"))

	resp := handleMessage(t, s, initializeRequest)
	if resp["error"] != nil {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("result should be an object, got %T", resp["result"])
	}
	info, ok := result["serverInfo"].(map[string]any)
	if !ok {
		t.Fatal("result should contain serverInfo")
	}
	if info["name"] != Name || info["version"] != "1.2.3" {
		t.Errorf("serverInfo: got %v", info)
	}
}

func TestPing(t *testing.T) {
	s := New()

	resp := handleMessage(t, s, `{"jsonrpc":"2.0","id":"ping-1","method":"ping"}`)
	if resp["error"] != nil {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
	if resp["id"] != "ping-1" {
		t.Errorf("id: got %v, want ping-1", resp["id"])
	}
}

func TestToolsList(t *testing.T) {
	s := New()
	handleMessage(t, s, initializeRequest)

	resp := handleMessage(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if resp["error"] != nil {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
	result := resp["result"].(map[string]any)
	tools, ok := result["tools"].([]any)
	if !ok {
		t.Fatal("result should contain a tools array")
	}

	names := map[string]bool{}
	for _, tool := range tools {
		names[tool.(map[string]any)["name"].(string)] = true
	}
	for _, want := range []string{ToolImageLoad, ToolCartoonize, ToolEdgeMask, ToolCartoonPalette} {
		if !names[want] {
			t.Errorf("tools/list is missing %s", want)
		}
	}
	if len(tools) != 4 {
		t.Errorf("tool count: got %d, want 4", len(tools))
	}
}

func TestToolsCall_ThroughProtocol(t *testing.T) {
	s := newTestServer()
	handleMessage(t, s, initializeRequest)
	imgPath := createTestImageFile(t, 30, 20, color.RGBA{0, 0, 255, 255})

	raw := fmt.Sprintf(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"image_load","arguments":{"path":%q}}}`, imgPath)
	resp := handleMessage(t, s, raw)
	if resp["error"] != nil {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
	result := resp["result"].(map[string]any)
	if isErr, _ := result["isError"].(bool); isErr {
		t.Fatalf("unexpected tool error: %v", result["content"])
	}
	content := result["content"].([]any)
	if len(content) != 1 || content[0].(map[string]any)["type"] != "text" {
		t.Errorf("content: got %v, want one text entry", content)
	}
}

func TestToolsCall_UnknownTool(t *testing.T) {
	s := New()
	handleMessage(t, s, initializeRequest)

	resp := handleMessage(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"image_crop","arguments":{}}}`)
	if resp["error"] == nil {
		t.Error("unknown tool should produce a JSON-RPC error")
	}
}

func TestMethodNotFound(t *testing.T) {
	s := New()

	resp := handleMessage(t, s, `{"jsonrpc":"2.0","id":5,"method":"unknown/method"}`)
	if resp["error"] == nil {
		t.Error("unknown method should produce a JSON-RPC error")
	}
}

func TestWithLogger_LogsToolCalls(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(WithLogger(logger), WithConfig(newTestServer().base))
	handleMessage(t, s, initializeRequest)
	imgPath := createTestImageFile(t, 10, 10, color.White)

	handleMessage(t, s, fmt.Sprintf(`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"image_load","arguments":{"path":%q}}}`, imgPath))
	handleMessage(t, s, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"image_load","arguments":{"path":"/nonexistent.png"}}}`)

	var infos, warns int
	for _, e := range hook.AllEntries() {
		if e.Data["tool"] != ToolImageLoad {
			continue
		}
		switch e.Level {
		case logrus.InfoLevel:
			infos++
		case logrus.WarnLevel:
			warns++
		}
	}
	if infos != 1 || warns != 1 {
		t.Errorf("log entries: got %d info and %d warn, want 1 each", infos, warns)
	}
}
