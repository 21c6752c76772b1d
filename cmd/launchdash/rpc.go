package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"launchdash"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type pieParams struct {
	Site string `json:"site"`
}

type scatterParams struct {
	Site    string      `json:"site"`
	Payload *[2]float64 `json:"payload"`
}

// HandleRPC exposes the responders over JSON-RPC 2.0 for clients that do not
// render the HTML page.
func (h *Handler) HandleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, nil, http.StatusBadRequest, -32700, "invalid json")
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeRPCError(w, req.ID, http.StatusBadRequest, -32600, "invalid request")
		return
	}

	switch req.Method {
	case "dashboard.options":
		writeRPCResult(w, req.ID, h.Options)
	case "dashboard.profile":
		writeRPCResult(w, req.ID, launchdash.Profile(h.Table))
	case "dashboard.pie":
		var params pieParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			writeRPCError(w, req.ID, http.StatusBadRequest, -32602, "invalid params")
			return
		}
		sel := h.Options.Default
		if params.Site != "" {
			sel.Site = params.Site
		}
		h.writeRPCFigure(w, req.ID, launchdash.FigurePie, sel)
	case "dashboard.scatter":
		var params scatterParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			writeRPCError(w, req.ID, http.StatusBadRequest, -32602, "invalid params")
			return
		}
		sel := h.Options.Default
		if params.Site != "" {
			sel.Site = params.Site
		}
		if params.Payload != nil {
			if err := checkPayload(*params.Payload); err != nil {
				writeRPCError(w, req.ID, http.StatusBadRequest, -32602, err.Error())
				return
			}
			sel.Payload = *params.Payload
		}
		h.writeRPCFigure(w, req.ID, launchdash.FigureScatter, sel)
	case "dashboard.dispatch":
		var params callbackRequest
		if err := unmarshalParams(req.Params, &params); err != nil {
			writeRPCError(w, req.ID, http.StatusBadRequest, -32602, "invalid params")
			return
		}
		figures, err := h.dispatch(params)
		if err != nil {
			if errors.Is(err, launchdash.ErrUnknownControl) || errors.Is(err, errInvalidPayload) {
				writeRPCError(w, req.ID, http.StatusBadRequest, -32602, err.Error())
				return
			}
			writeRPCError(w, req.ID, http.StatusInternalServerError, -32603, err.Error())
			return
		}
		writeRPCResult(w, req.ID, callbackResponse{Figures: figures})
	default:
		writeRPCError(w, req.ID, http.StatusNotFound, -32601, "method not found")
	}
}

func (h *Handler) writeRPCFigure(w http.ResponseWriter, id any, chart string, sel launchdash.Selection) {
	fig, err := h.figure(chart, sel)
	if err != nil {
		writeRPCError(w, id, http.StatusNotFound, -32601, err.Error())
		return
	}
	writeRPCResult(w, id, fig)
}

// unmarshalParams accepts absent params as an empty object.
func unmarshalParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func writeRPCResult(w http.ResponseWriter, id any, result any) {
	writeRPC(w, http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func writeRPCError(w http.ResponseWriter, id any, status int, code int, message string) {
	writeRPC(w, status, rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func writeRPC(w http.ResponseWriter, status int, resp rpcResponse) {
	writeJSON(w, status, resp)
}
