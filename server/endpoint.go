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

// Package server binds parsed request paths to handlers and synthesizes
// responses. It holds no connection state; transports sit on top of it.
package server

import (
	"encoding/binary"

	"github.com/hades2013/yacoap/coapcore"
)

// Handler serves a matched request. scratch is the caller's staging area for
// small synthesized option values and must outlive resp.
type Handler func(scratch []byte, req, resp *coapcore.Message, mid int32) error

// Endpoint describes one resource: the method it answers, its path split into
// segments, the content format of its representation and the handler that
// produces it.
type Endpoint struct {
	Method      coapcore.Code
	Path        []string
	ContentType coapcore.MediaType
	Handler     Handler
}

// MakeResponse fills out with an acknowledgement carrying code, the echoed
// token and a single Content-Format option. The two option value bytes are
// staged in scratch, which must hold at least 2 bytes and outlive out.
func MakeResponse(scratch []byte, out *coapcore.Message, content []byte, mid int32, token coapcore.Token, code coapcore.Code, contentType coapcore.MediaType) error {
	if len(scratch) < 2 {
		return coapcore.ErrTooSmall
	}
	binary.BigEndian.PutUint16(scratch, uint16(contentType))

	out.Type = coapcore.Acknowledgement
	out.MessageID = mid
	out.Code = code
	out.Token = token
	out.Opts = append(out.Opts[:0], coapcore.Option{ID: coapcore.ContentFormat, Value: scratch[:2]})
	out.Payload = content
	return nil
}

// HandleRequest matches in against the endpoint table and invokes the first
// endpoint whose method and URI-Path segments match, in table order. A
// request without URI-Path options matches an endpoint with an empty path.
// When nothing matches, out becomes a 4.04 acknowledgement echoing the
// request's token and message id with no payload.
func HandleRequest(endpoints []Endpoint, scratch []byte, in, out *coapcore.Message) error {
	count := 0
	first := 0
	if f, last, err := in.Opts.Find(coapcore.URIPath); err == nil {
		first = f
		count = last - f
	}

	for _, ep := range endpoints {
		if ep.Handler == nil || ep.Method != in.Code || len(ep.Path) != count {
			continue
		}
		matched := true
		for i := 0; i < count; i++ {
			if string(in.Opts[first+i].Value) != ep.Path[i] {
				matched = false
				break
			}
		}
		if matched {
			return ep.Handler(scratch, in, out, in.MessageID)
		}
	}
	return MakeResponse(scratch, out, nil, in.MessageID, in.Token, coapcore.NotFound, coapcore.MediaTypeNone)
}
