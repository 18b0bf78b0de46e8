// Copyright 2024 tobyzxj
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hades2013/yacoap/coapcore"
	"github.com/hades2013/yacoap/coder"
)

var lightState = []byte("1")

func handleLight(scratch []byte, req, resp *coapcore.Message, mid int32) error {
	if err := MakeResponse(scratch, resp, lightState, mid, req.Token, coapcore.Content, coapcore.TextPlain); err != nil {
		return err
	}
	resp.Opts = resp.Opts.Add(coapcore.Option{ID: coapcore.ETag, Value: coapcore.ETagOf(lightState)})
	return nil
}

func handleWellKnown(scratch []byte, req, resp *coapcore.Message, mid int32) error {
	return MakeResponse(scratch, resp, nil, mid, req.Token, coapcore.Content, coapcore.AppLinkFormat)
}

func testEndpoints() []Endpoint {
	return []Endpoint{
		{Method: coapcore.GET, Path: []string{".well-known", "core"}, ContentType: coapcore.AppLinkFormat, Handler: handleWellKnown},
		{Method: coapcore.GET, Path: []string{"light"}, ContentType: coapcore.TextPlain, Handler: handleLight},
	}
}

func request(code coapcore.Code, mid int32, token coapcore.Token, path ...string) coapcore.Message {
	opts := make(coapcore.Options, 0, coapcore.MaxOptions)
	for _, seg := range path {
		opts = opts.Add(coapcore.Option{ID: coapcore.URIPath, Value: []byte(seg)})
	}
	return coapcore.Message{
		Type:      coapcore.Confirmable,
		Code:      code,
		MessageID: mid,
		Token:     token,
		Opts:      opts,
	}
}

func TestHandleRequestMatch(t *testing.T) {
	in := request(coapcore.GET, 0x0042, coapcore.Token{0xab}, "light")
	out := coapcore.Message{Opts: make(coapcore.Options, 0, coapcore.MaxOptions)}
	scratch := make([]byte, 16)

	err := HandleRequest(testEndpoints(), scratch, &in, &out)
	require.NoError(t, err)
	require.Equal(t, coapcore.Acknowledgement, out.Type)
	require.Equal(t, coapcore.Content, out.Code)
	require.Equal(t, int32(0x0042), out.MessageID)
	require.Equal(t, coapcore.Token{0xab}, out.Token)
	require.Equal(t, lightState, out.Payload)

	cf, err := out.ContentFormat()
	require.NoError(t, err)
	require.Equal(t, coapcore.TextPlain, cf)

	tag, err := out.Option(coapcore.ETag)
	require.NoError(t, err)
	require.Equal(t, coapcore.ETagOf(lightState), tag)
}

func TestHandleRequestNotFound(t *testing.T) {
	type args struct {
		in coapcore.Message
	}
	tests := []struct {
		name string
		args args
	}{
		{
			name: "unknown path",
			args: args{in: request(coapcore.GET, 0x0101, coapcore.Token{0x01, 0x02}, "nope")},
		},
		{
			name: "wrong method",
			args: args{in: request(coapcore.PUT, 0x0102, nil, "light")},
		},
		{
			name: "segment count mismatch",
			args: args{in: request(coapcore.GET, 0x0103, nil, "light", "extra")},
		},
		{
			name: "no path without root endpoint",
			args: args{in: request(coapcore.GET, 0x0104, nil)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := coapcore.Message{Opts: make(coapcore.Options, 0, coapcore.MaxOptions)}
			scratch := make([]byte, 16)
			err := HandleRequest(testEndpoints(), scratch, &tt.args.in, &out)
			require.NoError(t, err)
			require.Equal(t, coapcore.Acknowledgement, out.Type)
			require.Equal(t, coapcore.NotFound, out.Code)
			require.Equal(t, coapcore.Code(0x84), out.Code)
			require.Equal(t, tt.args.in.MessageID, out.MessageID)
			require.Equal(t, tt.args.in.Token, out.Token)
			require.Empty(t, out.Payload)
		})
	}
}

func TestHandleRequestRootEndpoint(t *testing.T) {
	served := false
	endpoints := []Endpoint{
		{Method: coapcore.GET, Path: nil, ContentType: coapcore.TextPlain,
			Handler: func(scratch []byte, req, resp *coapcore.Message, mid int32) error {
				served = true
				return MakeResponse(scratch, resp, []byte("root"), mid, req.Token, coapcore.Content, coapcore.TextPlain)
			}},
	}
	in := request(coapcore.GET, 0x0007, nil)
	out := coapcore.Message{Opts: make(coapcore.Options, 0, coapcore.MaxOptions)}
	err := HandleRequest(endpoints, make([]byte, 4), &in, &out)
	require.NoError(t, err)
	require.True(t, served)
	require.Equal(t, []byte("root"), out.Payload)
}

func TestHandleRequestFirstMatchWins(t *testing.T) {
	var hit string
	mk := func(tag string) Handler {
		return func(scratch []byte, req, resp *coapcore.Message, mid int32) error {
			hit = tag
			return MakeResponse(scratch, resp, nil, mid, req.Token, coapcore.Content, coapcore.TextPlain)
		}
	}
	endpoints := []Endpoint{
		{Method: coapcore.GET, Path: []string{"dup"}, ContentType: coapcore.TextPlain, Handler: mk("first")},
		{Method: coapcore.GET, Path: []string{"dup"}, ContentType: coapcore.TextPlain, Handler: mk("second")},
	}
	in := request(coapcore.GET, 1, nil, "dup")
	out := coapcore.Message{Opts: make(coapcore.Options, 0, coapcore.MaxOptions)}
	err := HandleRequest(endpoints, make([]byte, 4), &in, &out)
	require.NoError(t, err)
	require.Equal(t, "first", hit)
}

func TestMakeResponseScratchTooSmall(t *testing.T) {
	out := coapcore.Message{}
	err := MakeResponse(make([]byte, 1), &out, nil, 1, nil, coapcore.Content, coapcore.TextPlain)
	require.ErrorIs(t, err, coapcore.ErrTooSmall)
}

func TestHandleRequestWireRoundTrip(t *testing.T) {
	// GET /light, token 0xab, mid 0x0042
	datagram := []byte{0x41, 0x01, 0x00, 0x42, 0xab, 0xb5, 0x6c, 0x69, 0x67, 0x68, 0x74}

	in := coapcore.Message{Opts: make(coapcore.Options, 0, coapcore.MaxOptions), MessageID: -1, Type: coapcore.Unset}
	_, err := coder.DefaultCoder.Decode(datagram, &in)
	require.NoError(t, err)

	out := coapcore.Message{Opts: make(coapcore.Options, 0, coapcore.MaxOptions)}
	scratch := make([]byte, 16)
	require.NoError(t, HandleRequest(testEndpoints(), scratch, &in, &out))

	buf := make([]byte, 64)
	n, err := coder.DefaultCoder.Encode(out, buf)
	require.NoError(t, err)

	echo := coapcore.Message{Opts: make(coapcore.Options, 0, coapcore.MaxOptions), MessageID: -1, Type: coapcore.Unset}
	_, err = coder.DefaultCoder.Decode(buf[:n], &echo)
	require.NoError(t, err)
	require.Equal(t, coapcore.Content, echo.Code)
	require.Equal(t, coapcore.Token{0xab}, echo.Token)
	require.Equal(t, lightState, echo.Payload)
}
