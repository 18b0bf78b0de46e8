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

package server

import (
	"strconv"

	"github.com/hades2013/yacoap/coapcore"
)

// boundedWriter appends into a fixed buffer and latches ErrTooSmall on the
// first write that does not fit.
type boundedWriter struct {
	buf []byte
	n   int
	err error
}

func (w *boundedWriter) write(p []byte) {
	if w.err != nil {
		return
	}
	if len(p) > len(w.buf)-w.n {
		w.err = coapcore.ErrTooSmall
		return
	}
	copy(w.buf[w.n:], p)
	w.n += len(p)
}

func (w *boundedWriter) writeString(s string) {
	if w.err != nil {
		return
	}
	if len(s) > len(w.buf)-w.n {
		w.err = coapcore.ErrTooSmall
		return
	}
	copy(w.buf[w.n:], s)
	w.n += len(s)
}

// BuildEndpoints writes the RFC 6690 CoRE Link Format listing of the endpoint
// table into buf, entries of the form </seg1/seg2>;ct=N separated by commas.
// Endpoints without a content type are skipped. Returns the number of bytes
// written, or ErrTooSmall when buf cannot hold the listing.
func BuildEndpoints(endpoints []Endpoint, buf []byte) (int, error) {
	w := boundedWriter{buf: buf}
	var tmp [8]byte
	for _, ep := range endpoints {
		if ep.Handler == nil || ep.ContentType == coapcore.MediaTypeNone {
			continue
		}
		if w.n > 0 {
			w.writeString(",")
		}
		w.writeString("<")
		for _, seg := range ep.Path {
			w.writeString("/")
			w.writeString(seg)
		}
		w.writeString(">;ct=")
		w.write(strconv.AppendUint(tmp[:0], uint64(ep.ContentType), 10))
	}
	if w.err != nil {
		return 0, w.err
	}
	return w.n, nil
}
