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
	"errors"
	"strconv"
)

const (
	ExtendOptionByteCode   = 13
	ExtendOptionByteAddend = 13
	ExtendOptionWordCode   = 14
	ExtendOptionWordAddend = 269
	ExtendOptionError      = 15

	// maxExtendValue is the largest delta or length expressible with the
	// two-byte extension form.
	maxExtendValue = 0xffff + ExtendOptionWordAddend
)

// OptionID identifies an option in a message.
type OptionID uint16

/*
   +-----+----+---+---+---+----------------+--------+--------+---------+
   | No. | C  | U | N | R | Name           | Format | Length | Default |
   +-----+----+---+---+---+----------------+--------+--------+---------+
   |   1 | x  |   |   | x | If-Match       | opaque | 0-8    | (none)  |
   |   3 | x  | x | - |   | Uri-Host       | string | 1-255  | (see    |
   |     |    |   |   |   |                |        |        | below)  |
   |   4 |    |   |   | x | ETag           | opaque | 1-8    | (none)  |
   |   5 | x  |   |   |   | If-None-Match  | empty  | 0      | (none)  |
   |   7 | x  | x | - |   | Uri-Port       | uint   | 0-2    | (see    |
   |     |    |   |   |   |                |        |        | below)  |
   |   8 |    |   |   | x | Location-Path  | string | 0-255  | (none)  |
   |  11 | x  | x | - | x | Uri-Path       | string | 0-255  | (none)  |
   |  12 |    |   |   |   | Content-Format | uint   | 0-2    | (none)  |
   |  14 |    | x | - |   | Max-Age        | uint   | 0-4    | 60      |
   |  15 | x  | x | - | x | Uri-Query      | string | 0-255  | (none)  |
   |  17 | x  |   |   |   | Accept         | uint   | 0-2    | (none)  |
   |  20 |    |   |   | x | Location-Query | string | 0-255  | (none)  |
   |  35 | x  | x | - |   | Proxy-Uri      | string | 1-1034 | (none)  |
   |  39 | x  | x | - |   | Proxy-Scheme   | string | 1-255  | (none)  |
   |  60 |    |   | x |   | Size1          | uint   | 0-4    | (none)  |
   +-----+----+---+---+---+----------------+--------+--------+---------+
   C=Critical, U=Unsafe, N=NoCacheKey, R=Repeatable
*/

// Option IDs.
const (
	IfMatch       OptionID = 1
	URIHost       OptionID = 3
	ETag          OptionID = 4
	IfNoneMatch   OptionID = 5
	URIPort       OptionID = 7
	LocationPath  OptionID = 8
	URIPath       OptionID = 11
	ContentFormat OptionID = 12
	MaxAge        OptionID = 14
	URIQuery      OptionID = 15
	Accept        OptionID = 17
	LocationQuery OptionID = 20
	ProxyURI      OptionID = 35
	ProxyScheme   OptionID = 39
	Size1         OptionID = 60
)

var optionIDToString = map[OptionID]string{
	IfMatch:       "IfMatch",
	URIHost:       "URIHost",
	ETag:          "ETag",
	IfNoneMatch:   "IfNoneMatch",
	URIPort:       "URIPort",
	LocationPath:  "LocationPath",
	URIPath:       "URIPath",
	ContentFormat: "ContentFormat",
	MaxAge:        "MaxAge",
	URIQuery:      "URIQuery",
	Accept:        "Accept",
	LocationQuery: "LocationQuery",
	ProxyURI:      "ProxyURI",
	ProxyScheme:   "ProxyScheme",
	Size1:         "Size1",
}

func (o OptionID) String() string {
	str, ok := optionIDToString[o]
	if !ok {
		return "Option(" + strconv.FormatInt(int64(o), 10) + ")"
	}
	return str
}

func ToOptionID(v string) (OptionID, error) {
	for key, val := range optionIDToString {
		if val == v {
			return key, nil
		}
	}
	return 0, errors.New("not found")
}

// ValueFormat is the option value format (RFC7252 section 3.2)
type ValueFormat uint8

const (
	ValueUnknown ValueFormat = iota
	ValueEmpty
	ValueOpaque
	ValueUint
	ValueString
)

type OptionDef struct {
	MinLen      uint32
	MaxLen      uint32
	ValueFormat ValueFormat
}

var CoapOptionDefs = map[OptionID]OptionDef{
	IfMatch:       {ValueFormat: ValueOpaque, MinLen: 0, MaxLen: 8},
	URIHost:       {ValueFormat: ValueString, MinLen: 1, MaxLen: 255},
	ETag:          {ValueFormat: ValueOpaque, MinLen: 1, MaxLen: 8},
	IfNoneMatch:   {ValueFormat: ValueEmpty, MinLen: 0, MaxLen: 0},
	URIPort:       {ValueFormat: ValueUint, MinLen: 0, MaxLen: 2},
	LocationPath:  {ValueFormat: ValueString, MinLen: 0, MaxLen: 255},
	URIPath:       {ValueFormat: ValueString, MinLen: 0, MaxLen: 255},
	ContentFormat: {ValueFormat: ValueUint, MinLen: 0, MaxLen: 2},
	MaxAge:        {ValueFormat: ValueUint, MinLen: 0, MaxLen: 4},
	URIQuery:      {ValueFormat: ValueString, MinLen: 0, MaxLen: 255},
	Accept:        {ValueFormat: ValueUint, MinLen: 0, MaxLen: 2},
	LocationQuery: {ValueFormat: ValueString, MinLen: 0, MaxLen: 255},
	ProxyURI:      {ValueFormat: ValueString, MinLen: 1, MaxLen: 1034},
	ProxyScheme:   {ValueFormat: ValueString, MinLen: 1, MaxLen: 255},
	Size1:         {ValueFormat: ValueUint, MinLen: 0, MaxLen: 4},
}

// VerifyOptLen checks whether valueLen is within (min, max) length limits for given option.
func VerifyOptLen(optID OptionID, valueLen int) bool {
	def := CoapOptionDefs[optID]
	if valueLen < int(def.MinLen) || valueLen > int(def.MaxLen) {
		return false
	}
	return true
}

// MediaType specifies the content format of a message.
type MediaType uint16

// Content formats.
const (
	TextPlain     MediaType = 0  // text/plain;charset=utf-8
	AppLinkFormat MediaType = 40 // application/link-format
	AppXML        MediaType = 41 // application/xml
	AppOctets     MediaType = 42 // application/octet-stream
	AppExi        MediaType = 47 // application/exi
	AppJSON       MediaType = 50 // application/json
	AppCBOR       MediaType = 60 // application/cbor (RFC 7049)

	// MediaTypeNone marks an endpoint without a representation; such
	// endpoints are omitted from the link-format listing.
	MediaTypeNone MediaType = 0xffff
)

var mediaTypeToString = map[MediaType]string{
	TextPlain:     "text/plain;charset=utf-8",
	AppLinkFormat: "application/link-format",
	AppXML:        "application/xml",
	AppOctets:     "application/octet-stream",
	AppExi:        "application/exi",
	AppJSON:       "application/json",
	AppCBOR:       "application/cbor (RFC 7049)",
	MediaTypeNone: "none",
}

func (c MediaType) String() string {
	str, ok := mediaTypeToString[c]
	if !ok {
		return "MediaType(" + strconv.FormatInt(int64(c), 10) + ")"
	}
	return str
}

func ToMediaType(v string) (MediaType, error) {
	for key, val := range mediaTypeToString {
		if val == v {
			return key, nil
		}
	}
	return 0, errors.New("not found")
}

// extendOpt maps a delta or length onto its nibble class and extension value.
func extendOpt(opt int) (int, int, error) {
	if opt > maxExtendValue {
		return 0, 0, ErrOptionTooLong
	}
	ext := 0
	if opt >= ExtendOptionByteAddend {
		if opt >= ExtendOptionWordAddend {
			ext = opt - ExtendOptionWordAddend
			opt = ExtendOptionWordCode
		} else {
			ext = opt - ExtendOptionByteAddend
			opt = ExtendOptionByteCode
		}
	}
	return opt, ext, nil
}

func marshalOptionHeaderExt(buf []byte, opt, ext int) (int, error) {
	switch opt {
	case ExtendOptionByteCode:
		if len(buf) > 0 {
			buf[0] = byte(ext)
			return 1, nil
		}
		return 1, ErrTooSmall
	case ExtendOptionWordCode:
		if len(buf) > 1 {
			binary.BigEndian.PutUint16(buf, uint16(ext))
			return 2, nil
		}
		return 2, ErrTooSmall
	}
	return 0, nil
}

func marshalOptionHeader(buf []byte, delta, length int) (int, error) {
	size := 0

	d, dx, err := extendOpt(delta)
	if err != nil {
		return -1, err
	}
	l, lx, err := extendOpt(length)
	if err != nil {
		return -1, err
	}

	if len(buf) > 0 {
		buf[0] = byte(d<<4) | byte(l)
	} else {
		buf = nil
	}
	size++

	var extLen int
	if buf == nil {
		extLen, err = marshalOptionHeaderExt(nil, d, dx)
	} else {
		extLen, err = marshalOptionHeaderExt(buf[size:], d, dx)
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrTooSmall):
		buf = nil
	default:
		return -1, err
	}
	size += extLen

	if buf == nil {
		extLen, err = marshalOptionHeaderExt(nil, l, lx)
	} else {
		extLen, err = marshalOptionHeaderExt(buf[size:], l, lx)
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrTooSmall):
		buf = nil
	default:
		return -1, err
	}
	size += extLen

	if buf == nil {
		return size, ErrTooSmall
	}
	return size, nil
}

// parseExtOpt resolves a delta or length nibble against its extension bytes.
func parseExtOpt(data []byte, opt int) (int, int, error) {
	processed := 0
	switch opt {
	case ExtendOptionByteCode:
		if len(data) < 1 {
			return 0, -1, ErrOptionTruncated
		}
		opt = int(data[0]) + ExtendOptionByteAddend
		processed = 1
	case ExtendOptionWordCode:
		if len(data) < 2 {
			return 0, -1, ErrOptionTruncated
		}
		opt = int(binary.BigEndian.Uint16(data[:2])) + ExtendOptionWordAddend
		processed = 2
	}
	return processed, opt, nil
}

// Option is a numbered TLV attached to a message. Value is a view into the
// buffer the option was parsed from; the option does not own the bytes.
type Option struct {
	Value []byte
	ID    OptionID
}

func (o Option) MarshalValue(buf []byte) (int, error) {
	if len(buf) < len(o.Value) {
		return len(o.Value), ErrTooSmall
	}
	copy(buf, o.Value)
	return len(o.Value), nil
}

func (o *Option) UnmarshalValue(buf []byte) (int, error) {
	o.Value = buf
	return len(buf), nil
}

// Marshal writes the option encoded against previousID.
func (o Option) Marshal(buf []byte, previousID OptionID) (int, error) {
	/*
	     0   1   2   3   4   5   6   7
	   +---------------+---------------+
	   |               |               |
	   |  Option Delta | Option Length |   1 byte
	   |               |               |
	   +---------------+---------------+
	   \                               \
	   /         Option Delta          /   0-2 bytes
	   \          (extended)           \
	   +-------------------------------+
	   \                               \
	   /         Option Length         /   0-2 bytes
	   \          (extended)           \
	   +-------------------------------+
	   \                               \
	   /                               /
	   \                               \
	   /         Option Value          /   0 or more bytes
	   \                               \
	   /                               /
	   \                               \
	   +-------------------------------+
	*/
	delta := int(o.ID) - int(previousID)

	size, err := marshalOptionHeader(buf, delta, len(o.Value))
	switch {
	case err == nil:
	case errors.Is(err, ErrTooSmall):
		buf = nil
	default:
		return -1, err
	}

	var valueLen int
	if buf == nil {
		valueLen, err = o.MarshalValue(nil)
	} else {
		valueLen, err = o.MarshalValue(buf[size:])
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrTooSmall):
		buf = nil
	default:
		return -1, err
	}
	size += valueLen

	if buf == nil {
		return size, ErrTooSmall
	}
	return size, nil
}
