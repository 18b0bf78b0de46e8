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

// Package coder frames CoAP messages for UDP per RFC 7252 section 3.
//
// Wire layout:
//
//	byte 0:     version (2 bits) | type (2 bits) | token length (4 bits)
//	byte 1:     code
//	bytes 2-3:  message id, network order
//	bytes 4...: token (tkl bytes), options, then 0xff and the payload
package coder

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hades2013/yacoap/coapcore"
)

const headerLen = 4

var DefaultCoder = new(Coder)

type Coder struct{}

// parseHeader fills the fixed header fields from the first four bytes and
// returns the declared token length.
func parseHeader(data []byte, m *coapcore.Message) (int, error) {
	if len(data) < headerLen {
		return 0, coapcore.ErrMessageTruncated
	}
	if coapcore.Ver(data[0]>>6) != coapcore.Version1 {
		return 0, coapcore.ErrMessageInvalidVersion
	}
	m.Type = coapcore.Type(data[0] >> 4 & 0x3)
	tkl := int(data[0] & 0xf)
	if tkl > coapcore.MaxTokenSize {
		return 0, coapcore.ErrInvalidTokenLen
	}
	m.Code = coapcore.Code(data[1])
	m.MessageID = int32(binary.BigEndian.Uint16(data[2:4]))
	return tkl, nil
}

// parseToken records the token view, nil when tkl is zero.
func parseToken(data []byte, tkl int, m *coapcore.Message) error {
	if headerLen+tkl > len(data) {
		return coapcore.ErrMessageTruncated
	}
	if tkl == 0 {
		m.Token = nil
		return nil
	}
	m.Token = coapcore.Token(data[headerLen : headerLen+tkl])
	return nil
}

// Decode parses data into m in place: header, token, options, payload.
// Token, option values and payload become views into data. On error m is
// indeterminate and must not be inspected.
func (c *Coder) Decode(data []byte, m *coapcore.Message) (int, error) {
	tkl, err := parseHeader(data, m)
	if err != nil {
		return -1, err
	}
	if err := parseToken(data, tkl, m); err != nil {
		return -1, err
	}
	cursor := headerLen + tkl

	proc, err := m.Opts.Unmarshal(data[cursor:])
	if err != nil {
		return -1, err
	}
	cursor += proc

	// Unmarshal consumed the 0xff marker when present; the rest is payload.
	m.Payload = nil
	if cursor < len(data) {
		m.Payload = data[cursor:]
	}
	return len(data), nil
}

// Size returns the number of bytes Encode needs for m.
func (c *Coder) Size(m coapcore.Message) (int, error) {
	if len(m.Token) > coapcore.MaxTokenSize {
		return -1, coapcore.ErrInvalidTokenLen
	}
	optLen, err := m.Opts.Marshal(nil)
	if err != nil && !errors.Is(err, coapcore.ErrTooSmall) {
		return -1, err
	}
	size := headerLen + len(m.Token) + optLen
	if len(m.Payload) > 0 {
		size += 1 + len(m.Payload)
	}
	return size, nil
}

// Encode writes m to buf and returns the number of bytes written. When buf
// is too small it returns the required size with ErrTooSmall; buf is then in
// an indeterminate state and must not be transmitted.
func (c *Coder) Encode(m coapcore.Message, buf []byte) (int, error) {
	if !coapcore.ValidateMID(m.MessageID) {
		return -1, fmt.Errorf("invalid MessageID(%v)", m.MessageID)
	}
	if !coapcore.ValidateType(m.Type) {
		return -1, fmt.Errorf("invalid Type(%v)", m.Type)
	}
	size, err := c.Size(m)
	if err != nil {
		return -1, err
	}
	if len(buf) < size {
		return size, coapcore.ErrTooSmall
	}

	buf[0] = byte(coapcore.Version1)<<6 | byte(m.Type)<<4 | byte(len(m.Token))
	buf[1] = byte(m.Code)
	binary.BigEndian.PutUint16(buf[2:4], uint16(m.MessageID))
	cursor := headerLen + copy(buf[headerLen:], m.Token)

	// buf holds size bytes, so marshalling cannot run short here
	optLen, err := m.Opts.Marshal(buf[cursor:])
	if err != nil {
		return -1, err
	}
	cursor += optLen

	if len(m.Payload) > 0 {
		buf[cursor] = 0xff // payload marker
		cursor++
		cursor += copy(buf[cursor:], m.Payload)
	}
	return cursor, nil
}
