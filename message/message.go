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

// Package message layers a reusable message over the zero-copy core. The
// core borrows every byte from its caller; a Message is that caller. It
// stages option values and payload in one grow-only arena and keeps separate
// buffers for the encoded and decoded wire images, so a message reused
// across exchanges settles into steady state without allocating.
package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/hades2013/yacoap/coapcore"
)

type Encoder interface {
	Size(m coapcore.Message) (int, error)
	Encode(m coapcore.Message, buf []byte) (int, error)
}

type Decoder interface {
	Decode(buf []byte, m *coapcore.Message) (int, error)
}

const arenaSize = 256

// Message owns the buffers a coapcore.Message borrows from.
type Message struct {
	ctx context.Context
	msg coapcore.Message

	arena []byte // staged option values, token and payload copies
	used  int
	wire  []byte // last encoded datagram
	image []byte // last decoded datagram; views in msg point here

	modified bool
}

func NewMessage(ctx context.Context) *Message {
	return &Message{
		ctx: ctx,
		msg: coapcore.Message{
			Opts:      make(coapcore.Options, 0, coapcore.MaxOptions),
			MessageID: -1,
			Type:      coapcore.Unset,
		},
		arena: make([]byte, arenaSize),
	}
}

// stage reserves n arena bytes. When the arena runs out a larger block
// replaces it; views handed out earlier keep pointing into the old block, so
// they stay valid.
func (r *Message) stage(n int) []byte {
	if r.used+n > len(r.arena) {
		size := 2 * len(r.arena)
		if size < n {
			size = n
		}
		r.arena = make([]byte, size)
		r.used = 0
	}
	b := r.arena[r.used : r.used+n]
	r.used += n
	return b
}

func (r *Message) Context() context.Context {
	return r.ctx
}

func (r *Message) SetContext(ctx context.Context) {
	r.ctx = ctx
}

// Reset clears the message for reuse. Oversized buffers left behind by a
// large exchange shrink back to their initial size.
func (r *Message) Reset() {
	r.msg.Token = nil
	r.msg.Code = coapcore.Empty
	r.msg.Opts = r.msg.Opts[:0]
	r.msg.MessageID = -1
	r.msg.Type = coapcore.Unset
	r.msg.Payload = nil
	r.used = 0
	if len(r.arena) > 4*arenaSize {
		r.arena = make([]byte, arenaSize)
	}
	if len(r.wire) > 4*arenaSize {
		r.wire = nil
	}
	if len(r.image) > 4*arenaSize {
		r.image = nil
	}
	r.modified = false
}

func (r *Message) Code() coapcore.Code {
	return r.msg.Code
}

func (r *Message) SetCode(code coapcore.Code) {
	r.msg.Code = code
	r.modified = true
}

func (r *Message) Type() coapcore.Type {
	return r.msg.Type
}

func (r *Message) SetType(typ coapcore.Type) {
	r.msg.Type = typ
	r.modified = true
}

// UpsertType sets the type only when the current one is not encodable.
func (r *Message) UpsertType(typ coapcore.Type) {
	if coapcore.ValidateType(r.msg.Type) {
		return
	}
	r.SetType(typ)
}

// MessageID returns 0 to 2^16-1, otherwise it contains an unset value.
func (r *Message) MessageID() int32 {
	return r.msg.MessageID
}

func (r *Message) SetMessageID(mid int32) {
	r.msg.MessageID = mid
	r.modified = true
}

// UpsertMessageID sets the id only when the current one is not encodable.
func (r *Message) UpsertMessageID(mid int32) {
	if coapcore.ValidateMID(r.msg.MessageID) {
		return
	}
	r.SetMessageID(mid)
}

// Token returns a copy of the token.
func (r *Message) Token() coapcore.Token {
	if r.msg.Token == nil {
		return nil
	}
	return append(coapcore.Token(nil), r.msg.Token...)
}

func (r *Message) SetToken(token coapcore.Token) {
	if token == nil {
		r.msg.Token = nil
		return
	}
	t := r.stage(len(token))
	copy(t, token)
	r.msg.Token = t
	r.modified = true
}

// Payload returns the staged payload view.
func (r *Message) Payload() []byte {
	return r.msg.Payload
}

func (r *Message) SetPayload(payload []byte) {
	if payload == nil {
		r.msg.Payload = nil
		return
	}
	p := r.stage(len(payload))
	copy(p, payload)
	r.msg.Payload = p
	r.modified = true
}

func (r *Message) Opts() coapcore.Options {
	return r.msg.Opts
}

// ResetOptsTo replaces all options with copies of in staged in the arena.
func (r *Message) ResetOptsTo(in coapcore.Options) {
	need := 0
	for _, o := range in {
		need += len(o.Value)
	}
	// the arena slice is sized exactly, so this cannot run short
	opts, _, _ := r.msg.Opts.ResetOptionsTo(r.stage(need), in)
	r.msg.Opts = opts
	if len(in) > 0 {
		r.modified = true
	}
}

func (r *Message) Remove(opt coapcore.OptionID) {
	r.msg.Opts = r.msg.Opts.Remove(opt)
	r.modified = true
}

func (r *Message) HasOption(id coapcore.OptionID) bool {
	return r.msg.Opts.HasOption(id)
}

// SetPath stores the given path as URI-Path options, one per segment.
// Segments over 255 bytes are not encodable and yield
// ErrInvalidValueLength.
func (r *Message) SetPath(p string) error {
	need, err := coapcore.GetPathBufferSize(p)
	if err != nil {
		return fmt.Errorf("cannot set path: %w", err)
	}
	opts, _, err := r.msg.Opts.SetPath(r.stage(need), p)
	if err != nil {
		return fmt.Errorf("cannot set path: %w", err)
	}
	r.msg.Opts = opts
	r.modified = true
	return nil
}

// MustSetPath calls SetPath and panics if it returns an error.
func (r *Message) MustSetPath(p string) {
	if err := r.SetPath(p); err != nil {
		panic(err)
	}
}

func (r *Message) Path() (string, error) {
	return r.msg.Opts.Path()
}

func (r *Message) Queries() ([]string, error) {
	return r.msg.Opts.Queries()
}

func (r *Message) AddQuery(query string) error {
	return r.AddOptionString(coapcore.URIQuery, query)
}

func (r *Message) SetOptionBytes(id coapcore.OptionID, value []byte) error {
	opts, _, err := r.msg.Opts.SetBytes(r.stage(len(value)), id, value)
	if err != nil {
		return err
	}
	r.msg.Opts = opts
	r.modified = true
	return nil
}

func (r *Message) AddOptionBytes(id coapcore.OptionID, value []byte) error {
	opts, _, err := r.msg.Opts.AddBytes(r.stage(len(value)), id, value)
	if err != nil {
		return err
	}
	r.msg.Opts = opts
	r.modified = true
	return nil
}

func (r *Message) SetOptionString(id coapcore.OptionID, value string) error {
	return r.SetOptionBytes(id, []byte(value))
}

func (r *Message) AddOptionString(id coapcore.OptionID, value string) error {
	return r.AddOptionBytes(id, []byte(value))
}

// GetOptionBytes gets the value of the first option with the given ID.
func (r *Message) GetOptionBytes(id coapcore.OptionID) ([]byte, error) {
	return r.msg.Opts.GetBytes(id)
}

func (r *Message) SetOptionUint32(id coapcore.OptionID, value uint32) {
	// four staged bytes hold any uint32
	opts, _, _ := r.msg.Opts.SetUint32(r.stage(4), id, value)
	r.msg.Opts = opts
	r.modified = true
}

func (r *Message) GetOptionUint32(id coapcore.OptionID) (uint32, error) {
	return r.msg.Opts.GetUint32(id)
}

func (r *Message) ContentFormat() (coapcore.MediaType, error) {
	return r.msg.Opts.ContentFormat()
}

func (r *Message) SetContentFormat(contentFormat coapcore.MediaType) {
	r.SetOptionUint32(coapcore.ContentFormat, uint32(contentFormat))
}

// AddETag appends value to existing ETags.
//
// Option definition:
// - format: opaque, length: 1-8, repeatable
func (r *Message) AddETag(value []byte) error {
	if !coapcore.VerifyOptLen(coapcore.ETag, len(value)) {
		return coapcore.ErrInvalidValueLength
	}
	return r.AddOptionBytes(coapcore.ETag, value)
}

// SetETag inserts/replaces ETag option(s); a single value remains.
func (r *Message) SetETag(value []byte) error {
	if !coapcore.VerifyOptLen(coapcore.ETag, len(value)) {
		return coapcore.ErrInvalidValueLength
	}
	return r.SetOptionBytes(coapcore.ETag, value)
}

// ETag returns the first ETag value.
func (r *Message) ETag() ([]byte, error) {
	return r.GetOptionBytes(coapcore.ETag)
}

func (r *Message) IsModified() bool {
	return r.modified
}

func (r *Message) SetModified(b bool) {
	r.modified = b
}

func (r *Message) String() string {
	return r.msg.String()
}

// Validate reports every field that cannot go on the wire, not only the
// first one found.
func (r *Message) Validate() error {
	var errs *multierror.Error
	if !coapcore.ValidateMID(r.msg.MessageID) {
		errs = multierror.Append(errs, fmt.Errorf("message id %v out of range", r.msg.MessageID))
	}
	if !coapcore.ValidateType(r.msg.Type) {
		errs = multierror.Append(errs, fmt.Errorf("type %v not encodable", r.msg.Type))
	}
	if len(r.msg.Token) > coapcore.MaxTokenSize {
		errs = multierror.Append(errs, coapcore.ErrInvalidTokenLen)
	}
	return errs.ErrorOrNil()
}

// Marshal encodes the message into the internal wire buffer. The returned
// slice is valid until the next Marshal or Reset.
func (r *Message) Marshal(encoder Encoder) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	size, err := encoder.Size(r.msg)
	if err != nil {
		return nil, err
	}
	if len(r.wire) < size {
		r.wire = make([]byte, size)
	}
	n, err := encoder.Encode(r.msg, r.wire)
	if err != nil {
		return nil, err
	}
	return r.wire[:n], nil
}

// Unmarshal copies data into the internal image buffer and decodes it in
// place. When the option container runs out it is regrown and the datagram
// decoded again, so dense messages still parse.
func (r *Message) Unmarshal(decoder Decoder, data []byte) (int, error) {
	if len(r.image) < len(data) {
		r.image = make([]byte, len(data))
	}
	copy(r.image, data)
	image := r.image[:len(data)]

	r.msg.Opts = r.msg.Opts[:0]
	for {
		n, err := decoder.Decode(image, &r.msg)
		if errors.Is(err, coapcore.ErrOptionsTooSmall) {
			grow := 2 * cap(r.msg.Opts)
			if grow < coapcore.MaxOptions {
				grow = coapcore.MaxOptions
			}
			r.msg.Opts = make(coapcore.Options, 0, grow)
			continue
		}
		if err == nil {
			r.modified = false
		}
		return n, err
	}
}

// IsSeparateMessage reports an empty acknowledgement that promises a later
// response.
func (r *Message) IsSeparateMessage() bool {
	return r.msg.Code == coapcore.Empty && r.msg.Token == nil &&
		r.msg.Type == coapcore.Acknowledgement && len(r.msg.Opts) == 0 &&
		len(r.msg.Payload) == 0
}

func (r *Message) setup(code coapcore.Code, path string, token coapcore.Token, opts []coapcore.Option) error {
	r.SetCode(code)
	r.SetToken(token)
	r.ResetOptsTo(opts)
	return r.SetPath(path)
}

func (r *Message) SetupGet(path string, token coapcore.Token, opts ...coapcore.Option) error {
	return r.setup(coapcore.GET, path, token, opts)
}

func (r *Message) SetupPost(path string, token coapcore.Token, contentFormat coapcore.MediaType, payload []byte, opts ...coapcore.Option) error {
	if err := r.setup(coapcore.POST, path, token, opts); err != nil {
		return err
	}
	if payload != nil {
		r.SetContentFormat(contentFormat)
		r.SetPayload(payload)
	}
	return nil
}

func (r *Message) SetupPut(path string, token coapcore.Token, contentFormat coapcore.MediaType, payload []byte, opts ...coapcore.Option) error {
	if err := r.setup(coapcore.PUT, path, token, opts); err != nil {
		return err
	}
	if payload != nil {
		r.SetContentFormat(contentFormat)
		r.SetPayload(payload)
	}
	return nil
}

func (r *Message) SetupDelete(path string, token coapcore.Token, opts ...coapcore.Option) error {
	return r.setup(coapcore.DELETE, path, token, opts)
}

// Clone copies this message into dst, staging fresh copies of the token,
// options and payload so the two share no bytes.
func (r *Message) Clone(dst *Message) {
	dst.Reset()
	dst.SetType(r.msg.Type)
	dst.SetCode(r.msg.Code)
	dst.SetMessageID(r.msg.MessageID)
	dst.SetToken(r.msg.Token)
	dst.ResetOptsTo(r.msg.Opts)
	dst.SetPayload(r.msg.Payload)
}
