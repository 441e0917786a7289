package discovery

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageName discriminates the closed set of inbound messages.
type MessageName string

const (
	MsgHrefPayload        MessageName = "HREF_PAYLOAD"
	MsgFetchProfileUpdate MessageName = "FETCH_PROFILE_UPDATE"
	MsgHideProfileOnClick MessageName = "HIDE_PROFILE_ON_CLICK"
)

// ErrUnknownMessage is returned for message names outside the closed set.
var ErrUnknownMessage = errors.New("unknown message name")

// Message is the raw envelope on the observation channel. Args stays
// undecoded until the name is validated.
type Message struct {
	Name MessageName     `json:"name"`
	Args json.RawMessage `json:"args"`
}

// HrefPayloadArgs reports one rel=me link observed on a page.
type HrefPayloadArgs struct {
	RelMeHref string `json:"relMeHref"`
	TabURL    string `json:"tabUrl"`
}

// FetchProfileUpdateArgs requests a refresh of one known record.
type FetchProfileUpdateArgs struct {
	RelMeHref string `json:"relMeHref"`
}

// HideProfileOnClickArgs asks to hide one record from the profile list.
type HideProfileOnClickArgs struct {
	RelMeHref string `json:"relMeHref"`
}

// DecodeArgs validates the envelope against the closed message set and
// decodes its args into the matching struct. Unrecognized names and
// malformed args are rejected here, before any handler runs.
func (m Message) DecodeArgs() (any, error) {
	switch m.Name {
	case MsgHrefPayload:
		var args HrefPayloadArgs
		if err := decodeStrict(m.Args, &args); err != nil {
			return nil, err
		}
		if args.RelMeHref == "" || args.TabURL == "" {
			return nil, fmt.Errorf("%s: relMeHref and tabUrl are required", m.Name)
		}
		return args, nil

	case MsgFetchProfileUpdate:
		var args FetchProfileUpdateArgs
		if err := decodeStrict(m.Args, &args); err != nil {
			return nil, err
		}
		if args.RelMeHref == "" {
			return nil, fmt.Errorf("%s: relMeHref is required", m.Name)
		}
		return args, nil

	case MsgHideProfileOnClick:
		var args HideProfileOnClickArgs
		if err := decodeStrict(m.Args, &args); err != nil {
			return nil, err
		}
		if args.RelMeHref == "" {
			return nil, fmt.Errorf("%s: relMeHref is required", m.Name)
		}
		return args, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Name)
	}
}

func decodeStrict(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return errors.New("missing args")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}
