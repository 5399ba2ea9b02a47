package tool_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/tool"
)

func TestNormalizeShapes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantOK  bool
		check   func(t *testing.T, res tool.Result)
		wantErr tool.ErrorKind
	}{
		{
			name:   "flat object",
			raw:    `{"id": 3, "title": "buy milk", "completed": false}`,
			wantOK: true,
			check: func(t *testing.T, res tool.Result) {
				if res.Payload.Get("id").Int() != 3 {
					t.Errorf("id = %d, want 3", res.Payload.Get("id").Int())
				}
			},
		},
		{
			name:   "array",
			raw:    `[{"id": 1}, {"id": 2}]`,
			wantOK: true,
			check: func(t *testing.T, res tool.Result) {
				if n := len(res.Payload.Array()); n != 2 {
					t.Errorf("array length = %d, want 2", n)
				}
			},
		},
		{
			name:   "output envelope",
			raw:    `{"output": {"id": 5, "title": "call mom"}}`,
			wantOK: true,
			check: func(t *testing.T, res tool.Result) {
				if res.Payload.Get("title").String() != "call mom" {
					t.Errorf("title = %q, want %q", res.Payload.Get("title").String(), "call mom")
				}
			},
		},
		{
			name:   "input envelope",
			raw:    `{"input": {"id": 6}}`,
			wantOK: true,
			check: func(t *testing.T, res tool.Result) {
				if res.Payload.Get("id").Int() != 6 {
					t.Errorf("id = %d, want 6", res.Payload.Get("id").Int())
				}
			},
		},
		{
			name:   "bare string",
			raw:    `"done"`,
			wantOK: true,
			check: func(t *testing.T, res tool.Result) {
				if res.Payload.String() != "done" {
					t.Errorf("payload = %q, want %q", res.Payload.String(), "done")
				}
			},
		},
		{
			name:   "bare number",
			raw:    `42`,
			wantOK: true,
		},
		{
			name:   "bare boolean",
			raw:    `true`,
			wantOK: true,
		},
		{
			name:    "error member",
			raw:     `{"error": {"kind": "not_found", "message": "no such task"}}`,
			wantErr: tool.KindNotFound,
		},
		{
			name:    "error with unknown kind falls back to execution",
			raw:     `{"error": {"kind": "weird", "message": "?"}}`,
			wantErr: tool.KindExecution,
		},
		{
			name:    "error nested in envelope",
			raw:     `{"output": {"error": {"kind": "invalid_argument", "message": "bad id"}}}`,
			wantErr: tool.KindInvalidArgument,
		},
		{
			name:    "invalid json",
			raw:     `{"id": `,
			wantErr: tool.KindMalformedResult,
		},
		{
			name:    "empty input",
			raw:     ``,
			wantErr: tool.KindMalformedResult,
		},
		{
			name:    "null",
			raw:     `null`,
			wantErr: tool.KindMalformedResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tool.Normalize([]byte(tt.raw))
			if res.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, want %v (err: %v)", res.OK(), tt.wantOK, res.Err)
			}
			if !tt.wantOK && res.Err.Kind != tt.wantErr {
				t.Errorf("error kind = %q, want %q", res.Err.Kind, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestNormalizeErr(t *testing.T) {
	res := tool.NormalizeErr(fmt.Errorf("wrapped: %w", tool.ErrNotFound))
	if res.OK() {
		t.Fatal("OK() = true for an error result")
	}
	if res.Err.Kind != tool.KindNotFound {
		t.Errorf("kind = %q, want %q", res.Err.Kind, tool.KindNotFound)
	}

	res = tool.NormalizeErr(errors.New("connection refused"))
	if res.Err.Kind != tool.KindExecution {
		t.Errorf("kind = %q, want %q", res.Err.Kind, tool.KindExecution)
	}
}
