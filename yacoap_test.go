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

package yacoap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hades2013/yacoap/coapcore"
)

func TestYaCoAPMarshalUnmarshal(t *testing.T) {
	y := NewYaCoAP()
	require.NoError(t, y.Message.SetupGet("/light", coapcore.Token{0xab}))
	y.Message.SetMessageID(0x0042)
	y.Message.SetType(coapcore.Confirmable)

	wire, err := y.Marshal()
	require.NoError(t, err)
	require.Equal(t, []byte{0x41, 0x01, 0x00, 0x42, 0xab, 0xb5, 0x6c, 0x69, 0x67, 0x68, 0x74}, wire)

	z := NewYaCoAP()
	n, err := z.Unmarshal(wire)
	require.NoError(t, err)
	require.Equal(t, len(wire), n)
	require.Equal(t, coapcore.GET, z.Message.Code())
	p, err := z.Message.Path()
	require.NoError(t, err)
	require.Equal(t, "/light", p)
}

func TestYaCoAPNilMessage(t *testing.T) {
	y := &YaCoAP{}
	_, err := y.Marshal()
	require.ErrorIs(t, err, coapcore.ErrMessageNil)
	_, err = y.Unmarshal([]byte{0x40, 0x01, 0x00, 0x01})
	require.ErrorIs(t, err, coapcore.ErrMessageNil)
}
