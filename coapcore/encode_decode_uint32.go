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

// Uint option values carry no leading zero bytes; zero is the empty value.

// EncodeUint32 writes value to buf big-endian in its shortest form and
// returns the number of bytes needed, with ErrTooSmall when buf cannot hold
// them.
func EncodeUint32(buf []byte, value uint32) (int, error) {
	n := 0
	for v := value; v != 0; v >>= 8 {
		n++
	}
	if len(buf) < n {
		return n, ErrTooSmall
	}
	for i, v := n-1, value; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return n, nil
}

// DecodeUint32 reads a 0-4 byte big-endian value from buf. Of a longer value
// only the first four bytes are read.
func DecodeUint32(buf []byte) (uint32, int, error) {
	if len(buf) > 4 {
		buf = buf[:4]
	}
	var value uint32
	for _, b := range buf {
		value = value<<8 | uint32(b)
	}
	return value, len(buf), nil
}
