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
	"errors"
	"strconv"
)

// Ver represents the message version field.
// It's only part of CoAP UDP messages.
type Ver int8

const (
	// Version1 is the only version defined by RFC 7252.
	Version1 Ver = 1
)

func (v Ver) String() string {
	if v == Version1 {
		return "Ver1"
	}
	return "Ver(" + strconv.FormatInt(int64(v), 10) + ")"
}

// ValidateVer validates the ver for UDP. Only version 1 packets are handled.
func ValidateVer(v Ver) bool {
	return v == Version1
}

// GetVersion gets the version from the first byte of a datagram.
func GetVersion(data []byte) (Ver, error) {
	if len(data) == 0 {
		return 0, errors.New("empty data")
	}
	return Ver(data[0] >> 6), nil
}
