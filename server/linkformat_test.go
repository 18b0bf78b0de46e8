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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hades2013/yacoap/coapcore"
)

func nopHandler(scratch []byte, req, resp *coapcore.Message, mid int32) error {
	return nil
}

func TestBuildEndpoints(t *testing.T) {
	type args struct {
		endpoints []Endpoint
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "empty table",
			args: args{endpoints: nil},
			want: "",
		},
		{
			name: "two entries",
			args: args{endpoints: []Endpoint{
				{Method: coapcore.GET, Path: []string{"sensors", "temp"}, ContentType: coapcore.TextPlain, Handler: nopHandler},
				{Method: coapcore.GET, Path: []string{"light"}, ContentType: coapcore.AppLinkFormat, Handler: nopHandler},
			}},
			want: "</sensors/temp>;ct=0,</light>;ct=40",
		},
		{
			name: "entry without content type skipped",
			args: args{endpoints: []Endpoint{
				{Method: coapcore.GET, Path: []string{"hidden"}, ContentType: coapcore.MediaTypeNone, Handler: nopHandler},
				{Method: coapcore.GET, Path: []string{"light"}, ContentType: coapcore.TextPlain, Handler: nopHandler},
			}},
			want: "</light>;ct=0",
		},
		{
			name: "root entry",
			args: args{endpoints: []Endpoint{
				{Method: coapcore.GET, Path: nil, ContentType: coapcore.TextPlain, Handler: nopHandler},
			}},
			want: "<>;ct=0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 128)
			n, err := BuildEndpoints(tt.args.endpoints, buf)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(buf[:n]))
		})
	}
}

func TestBuildEndpointsTooSmall(t *testing.T) {
	endpoints := []Endpoint{
		{Method: coapcore.GET, Path: []string{"sensors", "temp"}, ContentType: coapcore.TextPlain, Handler: nopHandler},
	}
	buf := make([]byte, 8)
	_, err := BuildEndpoints(endpoints, buf)
	require.ErrorIs(t, err, coapcore.ErrTooSmall)
}
