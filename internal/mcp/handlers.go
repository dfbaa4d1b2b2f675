package mcp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/busla/webrag/internal/session"
	"go.uber.org/zap"
)

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondRPC(w, http.StatusBadRequest, &rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: codeInvalidRequest, Message: "invalid JSON-RPC request"},
		})
		return
	}
	s.logger.Debug("rpc request", zap.String("method", req.Method))

	switch req.Method {
	case "initialize":
		s.handleInitialize(w, r, &req)
	case "notifications/initialized":
		// Notification: acknowledge without a body.
		w.WriteHeader(http.StatusAccepted)
	case "tools/list":
		s.withSession(w, r, &req, func() {
			s.respondRPC(w, http.StatusOK, &rpcResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Result:  toolsListResult{Tools: s.registry.Descriptors()},
			})
		})
	case "tools/call":
		s.withSession(w, r, &req, func() {
			s.handleToolCall(w, r, &req)
		})
	default:
		s.respondRPC(w, http.StatusOK, &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method},
		})
	}
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request, req *rpcRequest) {
	id, err := s.sessions.Create(r.Context(), nil)
	if err != nil {
		s.logger.Error("session create failed", zap.Error(err))
		s.respondRPC(w, http.StatusInternalServerError, &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInternalError, Message: "could not create session"},
		})
		return
	}
	w.Header().Set(SessionHeader, id)
	s.respondRPC(w, http.StatusOK, &rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      serverInfo{Name: serverName, Version: s.version},
			Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
		},
	})
}

// withSession validates the session header before running next.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, req *rpcRequest, next func()) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		s.respondRPC(w, http.StatusBadRequest, &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInvalidRequest, Message: "missing " + SessionHeader + " header"},
		})
		return
	}
	if _, err := s.sessions.Get(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.respondRPC(w, http.StatusNotFound, &rpcResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &rpcError{Code: codeSessionNotFound, Message: "session not found or expired"},
			})
			return
		}
		s.logger.Error("session lookup failed", zap.Error(err))
		s.respondRPC(w, http.StatusInternalServerError, &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInternalError, Message: "session lookup failed"},
		})
		return
	}
	next()
}

func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request, req *rpcRequest) {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.respondRPC(w, http.StatusOK, &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInvalidParams, Message: "invalid tools/call params"},
		})
		return
	}
	tool, ok := s.registry.Lookup(params.Name)
	if !ok {
		s.respondRPC(w, http.StatusOK, &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeMethodNotFound, Message: "unknown tool: " + params.Name},
		})
		return
	}

	text, err := tool.Handler(r.Context(), params.Arguments)
	if err != nil {
		s.logger.Error("tool call failed",
			zap.String("tool", params.Name), zap.Error(err))
		s.respondRPC(w, http.StatusOK, &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInternalError, Message: err.Error()},
		})
		return
	}
	s.respondRPC(w, http.StatusOK, &rpcResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  toolCallResult{Content: []contentItem{{Type: "text", Text: text}}},
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		http.Error(w, "missing session header", http.StatusBadRequest)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.logger.Error("session delete failed", zap.Error(err))
		http.Error(w, "failed to delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) respondRPC(w http.ResponseWriter, status int, resp *rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
