// Package server answers class metadata queries over JSON-RPC 2.0, framed with
// Content-Length headers like a language server.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/javameta/descriptor"
	"github.com/dhamidi/javameta/format"
	"github.com/dhamidi/javameta/loader"
)

var log = commonlog.GetLogger("javameta.server")

const (
	MethodDescribe  = "describe"
	MethodConstants = "constants"
	MethodClassPath = "classpath"
	MethodTypes     = "types"
)

type ClassParams struct {
	Class string `json:"class"`
}

type ConstantsParams struct {
	Class    string `json:"class"`
	Declared bool   `json:"declared"`
}

type TypesParams struct {
	Descriptor string `json:"descriptor"`
}

type ClassPathEntry struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// TypesResult answers a types call for a run of field descriptors.
type TypesResult struct {
	Types []format.JSONType `json:"types"`
}

// MethodTypesResult answers a types call for a method descriptor. Params is
// always present, empty for a method without arguments.
type MethodTypesResult struct {
	Params []format.JSONType `json:"params"`
	Return format.JSONType   `json:"return"`
}

type handlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

type Server struct {
	loader   *loader.ClassLoader
	handlers map[string]handlerFunc
}

func New(l *loader.ClassLoader) *Server {
	s := &Server{loader: l}
	s.handlers = map[string]handlerFunc{
		MethodDescribe:  s.describe,
		MethodConstants: s.constants,
		MethodClassPath: s.classPath,
		MethodTypes:     s.types,
	}
	return s
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return nil }

func (s *Server) RunStdio(ctx context.Context) error {
	log.Infof("serving on stdio")
	return s.Serve(ctx, stdio{})
}

// Serve answers requests on rwc until the peer disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}), s.Handler())
	select {
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}

func (s *Server) Handler() jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(s.handle)
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	h, ok := s.handlers[req.Method]
	if !ok {
		log.Debugf("unknown method %s", req.Method)
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}
	var params json.RawMessage
	if req.Params != nil {
		params = *req.Params
	}
	result, err := h(ctx, params)
	if err != nil {
		log.Debugf("%s failed: %v", req.Method, err)
	}
	return result, err
}

func invalidParams(msg string, args ...any) error {
	return &jsonrpc2.Error{
		Code:    jsonrpc2.CodeInvalidParams,
		Message: fmt.Sprintf(msg, args...),
	}
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return invalidParams("missing params")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return invalidParams("invalid params: %v", err)
	}
	return nil
}

func (s *Server) describe(ctx context.Context, raw json.RawMessage) (any, error) {
	var p ClassParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Class == "" {
		return nil, invalidParams("class is required")
	}
	model, err := s.loader.Describe(p.Class)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, nil
	}
	return format.ClassData(model), nil
}

func (s *Server) constants(ctx context.Context, raw json.RawMessage) (any, error) {
	var p ConstantsParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Class == "" {
		return nil, invalidParams("class is required")
	}

	create := s.loader.CreateConstantObject
	if p.Declared {
		create = s.loader.CreateObject
	}
	obj, err := create(p.Class)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return format.ObjectData(obj), nil
}

func (s *Server) classPath(ctx context.Context, raw json.RawMessage) (any, error) {
	cp := s.loader.ClassPath()
	entries := make([]ClassPathEntry, len(cp))
	for i, e := range cp {
		entries[i] = ClassPathEntry{Kind: e.Kind.String(), Path: e.Path}
	}
	return entries, nil
}

func (s *Server) types(ctx context.Context, raw json.RawMessage) (any, error) {
	var p TypesParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Descriptor == "" {
		return nil, invalidParams("descriptor is required")
	}

	if p.Descriptor[0] == '(' {
		m, err := descriptor.DecodeMethod(p.Descriptor)
		if err != nil {
			return nil, invalidParams("%v", err)
		}
		params := make([]format.JSONType, len(m.Params))
		for i, t := range m.Params {
			params[i] = format.TypeData(t)
		}
		return MethodTypesResult{Params: params, Return: format.TypeData(m.Return)}, nil
	}

	types, err := descriptor.DecodeAll(p.Descriptor)
	if err != nil {
		return nil, invalidParams("%v", err)
	}
	result := TypesResult{Types: make([]format.JSONType, len(types))}
	for i, t := range types {
		result.Types[i] = format.TypeData(t)
	}
	return result, nil
}
