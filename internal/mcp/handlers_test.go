package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/busla/webrag/internal/session"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, tools ...Tool) *Server {
	t.Helper()
	return NewServer(NewRegistry(tools...), session.NewMemoryStore(time.Hour), "127.0.0.1", 0, "test", zap.NewNop())
}

func echoTool() Tool {
	return Tool{
		ToolDescriptor: ToolDescriptor{
			Name:        "echo",
			Description: "Echo the input back.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{"type": "string"},
				},
			},
		},
		Handler: func(_ context.Context, args json.RawMessage) (string, error) {
			var params struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(args, &params); err != nil {
				return "", err
			}
			return params.Text, nil
		},
	}
}

func postRPC(t *testing.T, handler http.Handler, sessionID string, body string) (*httptest.ResponseRecorder, rpcResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp rpcResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, resp
}

func TestInitialize(t *testing.T) {
	srv := newTestServer(t, echoTool())
	rec, resp := postRPC(t, srv.Handler(), "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(SessionHeader) == "" {
		t.Error("expected session id header")
	}
	var result initializeResult
	raw, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatal(err)
	}
	if result.ProtocolVersion != protocolVersion {
		t.Errorf("protocolVersion = %q", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != serverName {
		t.Errorf("server name = %q", result.ServerInfo.Name)
	}
}

func TestFullHandshakeAndToolCall(t *testing.T) {
	srv := newTestServer(t, echoTool())
	handler := srv.Handler()

	rec, _ := postRPC(t, handler, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	id := rec.Header().Get(SessionHeader)
	if id == "" {
		t.Fatal("no session id")
	}

	rec, _ = postRPC(t, handler, id, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if rec.Code != http.StatusAccepted {
		t.Errorf("notification status = %d, want 202", rec.Code)
	}

	_, resp := postRPC(t, handler, id, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	var listed toolsListResult
	raw, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(raw, &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Tools) != 1 || listed.Tools[0].Name != "echo" {
		t.Fatalf("tools = %+v", listed.Tools)
	}

	_, resp = postRPC(t, handler, id,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hello"}}}`)
	if resp.Error != nil {
		t.Fatalf("tool call error: %+v", resp.Error)
	}
	var result toolCallResult
	raw, _ = json.Marshal(resp.Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Content) != 1 || result.Content[0].Text != "hello" {
		t.Errorf("content = %+v", result.Content)
	}
}

func TestToolCallWithoutSession(t *testing.T) {
	srv := newTestServer(t, echoTool())
	rec, resp := postRPC(t, srv.Handler(), "",
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{}}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeInvalidRequest {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestToolCallUnknownSession(t *testing.T) {
	srv := newTestServer(t, echoTool())
	rec, resp := postRPC(t, srv.Handler(), "not-a-session",
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeSessionNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestUnknownMethod(t *testing.T) {
	srv := newTestServer(t, echoTool())
	_, resp := postRPC(t, srv.Handler(), "", `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`)
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestUnknownTool(t *testing.T) {
	srv := newTestServer(t, echoTool())
	handler := srv.Handler()
	rec, _ := postRPC(t, handler, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	id := rec.Header().Get(SessionHeader)

	_, resp := postRPC(t, handler, id,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"nope","arguments":{}}}`)
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
	if resp.Error != nil && !strings.Contains(resp.Error.Message, "nope") {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestEndSession(t *testing.T) {
	srv := newTestServer(t, echoTool())
	handler := srv.Handler()
	rec, _ := postRPC(t, handler, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	id := rec.Header().Get(SessionHeader)

	req := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
	req.Header.Set(SessionHeader, id)
	del := httptest.NewRecorder()
	handler.ServeHTTP(del, req)
	if del.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", del.Code)
	}

	rec2, _ := postRPC(t, handler, id, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if rec2.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec2.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, echoTool())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestInvalidJSON(t *testing.T) {
	srv := newTestServer(t, echoTool())
	rec, resp := postRPC(t, srv.Handler(), "", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeInvalidRequest {
		t.Errorf("error = %+v", resp.Error)
	}
}
