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

package coapcore

import (
	"fmt"
)

// MaxTokenSize maximum of token size that can be used in message
const MaxTokenSize = 8

// Message is a CoAP message. Token, option values and Payload are views into
// the buffer the message was decoded from; the message does not own the bytes
// and lives no longer than that buffer.
type Message struct {
	Token   Token
	Opts    Options
	Code    Code
	Payload []byte

	MessageID int32 // uint16 is valid, all other values are invalid, -1 is used for unset
	Type      Type  // 0-3 is valid, all other values are invalid, -1 is used for unset
}

// IsConfirmable returns true if this message is confirmable.
func (m Message) IsConfirmable() bool {
	return m.Type == Confirmable
}

// IsPing returns true if this message is an empty confirmable probe.
func (m Message) IsPing() bool {
	return m.Type == Confirmable && m.Code == Empty
}

// Path gets the Path set on this message if any.
func (m Message) Path() (string, error) {
	return m.Opts.Path()
}

// Queries gets the URIQuery parameters set on this message.
func (m Message) Queries() ([]string, error) {
	return m.Opts.Queries()
}

// ContentFormat gets the ContentFormat option.
func (m Message) ContentFormat() (MediaType, error) {
	return m.Opts.ContentFormat()
}

// Option gets the value of the first option with the given ID.
func (m Message) Option(id OptionID) ([]byte, error) {
	return m.Opts.GetBytes(id)
}

func (m *Message) String() string {
	if m == nil {
		return "nil"
	}
	buf := fmt.Sprintf("Code: %v, Token: %v", m.Code, m.Token)
	path, err := m.Opts.Path()
	if err == nil {
		buf = fmt.Sprintf("%s, Path: %v", buf, path)
	}
	cf, err := m.Opts.ContentFormat()
	if err == nil {
		buf = fmt.Sprintf("%s, ContentFormat: %v", buf, cf)
	}
	queries, err := m.Opts.Queries()
	if err == nil {
		buf = fmt.Sprintf("%s, Queries: %+v", buf, queries)
	}
	if ValidateType(m.Type) {
		buf = fmt.Sprintf("%s, Type: %v", buf, m.Type)
	}
	if ValidateMID(m.MessageID) {
		buf = fmt.Sprintf("%s, MessageID: %v", buf, m.MessageID)
	}
	if len(m.Payload) > 0 {
		buf = fmt.Sprintf("%s, PayloadLen: %v", buf, len(m.Payload))
	}
	return buf
}
