package lsp

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Smattr/rumur/pkg/util/assert"
)

func frame(t *testing.T, method string, id int, params any) []byte {
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	m := &message{Method: method, Params: raw}
	if id != 0 {
		idRaw, _ := json.Marshal(id)
		m.ID = idRaw
	}
	var buf bytes.Buffer
	c := &codec{w: &buf}
	if err := c.writeMessage(m); err != nil {
		t.Fatalf("frame: %v", err)
	}
	return buf.Bytes()
}

func readAll(t *testing.T, r *bytes.Buffer) []*message {
	c := newCodec(r, nil)
	var out []*message
	for {
		m, err := c.readMessage()
		if err != nil {
			return out
		}
		out = append(out, m)
	}
}

func Test_Codec_RoundTripsMessage_00(t *testing.T) {
	var buf bytes.Buffer
	c := newCodec(nil, &buf)
	err := c.writeMessage(&message{Method: "initialize", Result: map[string]any{"ok": true}})
	assert.Equal(t, nil, err)

	reader := newCodec(&buf, nil)
	got, err := reader.readMessage()
	assert.Equal(t, nil, err)
	assert.Equal(t, "initialize", got.Method)
}

func Test_Server_InitializeReplies_00(t *testing.T) {
	in := bytes.NewBuffer(frame(t, "initialize", 1, map[string]any{}))
	var out bytes.Buffer
	s := NewServer(in, &out, nil)
	if err := s.Run(); err != nil {
		t.Fatalf("unexpected Run error: %v", err)
	}
	msgs := readAll(t, &out)
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one reply, got %d", len(msgs))
	}
}

func Test_Server_DidOpenPublishesParseErrorDiagnostic_00(t *testing.T) {
	var in bytes.Buffer
	in.Write(frame(t, "textDocument/didOpen", 0, didOpenParams{
		TextDocument: struct {
			URI  string `json:"uri"`
			Text string `json:"text"`
		}{URI: "file:///bad.m", Text: "var x boolean"},
	}))
	var out bytes.Buffer
	s := NewServer(&in, &out, nil)
	s.dispatch(mustReadOne(t, &in, &out))

	msgs := readAll(t, &out)
	if len(msgs) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(msgs))
	}
	assert.Equal(t, "textDocument/publishDiagnostics", msgs[0].Method)
	var params publishDiagnosticsParams
	if err := json.Unmarshal(msgs[0].Params, &params); err != nil {
		t.Fatalf("unmarshal publishDiagnostics params: %v", err)
	}
	if len(params.Diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic for malformed source")
	}
}

func Test_Server_CommentsReturnsOpenDocumentComments_00(t *testing.T) {
	s := NewServer(nil, nil, nil)
	s.openDocument("file:///doc.m", "-- a helpful note\nvar x: boolean;\n")

	var out bytes.Buffer
	s.codec = &codec{w: &out}
	reqRaw, _ := json.Marshal(commentsParams{URI: "file:///doc.m"})
	idRaw, _ := json.Marshal(7)
	s.handleComments(&message{ID: idRaw, Params: reqRaw})

	msgs := readAll(t, &out)
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one reply, got %d", len(msgs))
	}
	var result commentsResult
	resBytes, _ := json.Marshal(msgs[0].Result)
	if err := json.Unmarshal(resBytes, &result); err != nil {
		t.Fatalf("unmarshal comments result: %v", err)
	}
	if len(result.Comments) != 1 {
		t.Fatalf("expected exactly one comment, got %d", len(result.Comments))
	}
}

// mustReadOne decodes a single framed message already written into in,
// leaving the remainder of in untouched for the caller.
func mustReadOne(t *testing.T, in, out *bytes.Buffer) *message {
	data := in.Bytes()
	c := newCodec(bytes.NewReader(data), nil)
	m, err := c.readMessage()
	if err != nil {
		t.Fatalf("mustReadOne: %v", err)
	}
	return m
}
