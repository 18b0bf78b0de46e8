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
	"encoding/binary"

	"github.com/GiterLab/crc16"
)

// Entity-tags are CRC-16/MODBUS digests of the resource representation.
var etagTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// CRC16Bytes digests a resource representation.
func CRC16Bytes(data []byte) uint16 {
	h := crc16.New(etagTable)
	h.Write(data)
	return h.Sum16()
}

// ETagOf derives a 2-byte ETag option value for a representation. Equal
// representations yield equal tags.
func ETagOf(body []byte) []byte {
	tag := make([]byte, 2)
	binary.BigEndian.PutUint16(tag, CRC16Bytes(body))
	return tag
}
