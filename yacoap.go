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

// Package yacoap is a CoAP (RFC 7252) message codec with a request
// dispatcher. The heavy lifting lives in coapcore (packet model and option
// codec), coder (UDP wire framing) and server (endpoint dispatch); this
// package ties a reusable message to the wire codec.
package yacoap

import (
	"context"

	"github.com/hades2013/yacoap/coapcore"
	"github.com/hades2013/yacoap/coder"
	"github.com/hades2013/yacoap/message"
)

// YaCoAP 协议实例
type YaCoAP struct {
	Message *message.Message

	ctx context.Context
}

// NewYaCoAP 创建一个YaCoAP协议实例
func NewYaCoAP() *YaCoAP {
	ctx := context.Background()
	return &YaCoAP{
		Message: message.NewMessage(ctx),
		ctx:     ctx,
	}
}

func (y *YaCoAP) SetContext(ctx context.Context) {
	y.ctx = ctx
}

func (y *YaCoAP) GetContext() context.Context {
	return y.ctx
}

func (y *YaCoAP) SetMessage(msg *message.Message) {
	y.Message = msg
}

func (y *YaCoAP) GetMessage() *message.Message {
	return y.Message
}

func (y *YaCoAP) Marshal() ([]byte, error) {
	if y.Message == nil {
		return nil, coapcore.ErrMessageNil
	}
	return y.Message.Marshal(coder.DefaultCoder)
}

func (y *YaCoAP) Unmarshal(data []byte) (int, error) {
	if y.Message == nil {
		return 0, coapcore.ErrMessageNil
	}
	return y.Message.Unmarshal(coder.DefaultCoder, data)
}
