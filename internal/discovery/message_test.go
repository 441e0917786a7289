package discovery

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeArgs(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
		check   func(t *testing.T, args any)
	}{
		{
			name:    "href payload",
			payload: `{"name": "HREF_PAYLOAD", "args": {"relMeHref": "https://a", "tabUrl": "https://b"}}`,
			check: func(t *testing.T, args any) {
				got, ok := args.(HrefPayloadArgs)
				if !ok {
					t.Fatalf("args type = %T", args)
				}
				if got.RelMeHref != "https://a" || got.TabURL != "https://b" {
					t.Errorf("args = %+v", got)
				}
			},
		},
		{
			name:    "fetch profile update",
			payload: `{"name": "FETCH_PROFILE_UPDATE", "args": {"relMeHref": "https://a"}}`,
			check: func(t *testing.T, args any) {
				if _, ok := args.(FetchProfileUpdateArgs); !ok {
					t.Fatalf("args type = %T", args)
				}
			},
		},
		{
			name:    "hide profile on click",
			payload: `{"name": "HIDE_PROFILE_ON_CLICK", "args": {"relMeHref": "https://a"}}`,
			check: func(t *testing.T, args any) {
				if _, ok := args.(HideProfileOnClickArgs); !ok {
					t.Fatalf("args type = %T", args)
				}
			},
		},
		{
			name:    "unknown name rejected",
			payload: `{"name": "DROP_TABLES", "args": {}}`,
			wantErr: true,
		},
		{
			name:    "missing args rejected",
			payload: `{"name": "HREF_PAYLOAD"}`,
			wantErr: true,
		},
		{
			name:    "missing required field rejected",
			payload: `{"name": "HREF_PAYLOAD", "args": {"relMeHref": "https://a"}}`,
			wantErr: true,
		},
		{
			name:    "args of wrong shape rejected",
			payload: `{"name": "FETCH_PROFILE_UPDATE", "args": "https://a"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg Message
			if err := json.Unmarshal([]byte(tt.payload), &msg); err != nil {
				t.Fatalf("envelope decode failed: %v", err)
			}

			args, err := msg.DecodeArgs()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got args %+v", args)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeArgs failed: %v", err)
			}
			tt.check(t, args)
		})
	}
}

func TestUnknownMessageSentinel(t *testing.T) {
	msg := Message{Name: "NOPE", Args: json.RawMessage(`{}`)}
	if _, err := msg.DecodeArgs(); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("expected ErrUnknownMessage, got %v", err)
	}
}
