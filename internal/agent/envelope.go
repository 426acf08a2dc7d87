// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package agent

import (
	"bytes"
	"crypto/sha256"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/dotandev/canact/internal/errors"
)

// selfDescribedCBOR is the tag number the gateway requires on every envelope.
const selfDescribedCBOR = 55799

// content is the body of one gateway request. Fields not set for a given
// request type are omitted from the wire encoding and from the request ID.
type content struct {
	RequestType   string     `cbor:"request_type"`
	Sender        []byte     `cbor:"sender"`
	Nonce         []byte     `cbor:"nonce,omitempty"`
	IngressExpiry uint64     `cbor:"ingress_expiry"`
	CanisterID    []byte     `cbor:"canister_id,omitempty"`
	MethodName    string     `cbor:"method_name,omitempty"`
	Arg           []byte     `cbor:"arg,omitempty"`
	Paths         [][][]byte `cbor:"paths,omitempty"`
}

// envelope wraps the content for submission. Unsigned requests carry only the
// content map; the anonymous sender needs no signature fields.
type envelope struct {
	Content content `cbor:"content"`
}

// marshalEnvelope encodes the envelope with the self-describing tag.
func marshalEnvelope(c content) ([]byte, error) {
	data, err := cbor.Marshal(cbor.Tag{Number: selfDescribedCBOR, Content: envelope{Content: c}})
	if err != nil {
		return nil, errors.WrapMarshalFailed(err)
	}
	return data, nil
}

// stripSelfDescribed drops the self-describing tag prefix the gateway puts
// on response bodies, leaving plain CBOR for unmarshaling.
func stripSelfDescribed(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xD9 && data[1] == 0xD9 && data[2] == 0xF7 {
		return data[3:]
	}
	return data
}

// RequestID computes the representation-independent hash of the content map:
// for each present field, sha256 of the key concatenated with sha256 of the
// encoded value; the pairs sorted bytewise, concatenated, and hashed once
// more. The result is what read_state paths refer to.
func (c content) RequestID() [32]byte {
	var pairs [][]byte

	add := func(key string, value []byte) {
		k := sha256.Sum256([]byte(key))
		v := sha256.Sum256(value)
		pairs = append(pairs, append(k[:], v[:]...))
	}

	add("request_type", []byte(c.RequestType))
	if c.Sender != nil {
		add("sender", c.Sender)
	}
	if c.Nonce != nil {
		add("nonce", c.Nonce)
	}
	if c.IngressExpiry != 0 {
		add("ingress_expiry", encodeULEB(c.IngressExpiry))
	}
	if c.CanisterID != nil {
		add("canister_id", c.CanisterID)
	}
	if c.MethodName != "" {
		add("method_name", []byte(c.MethodName))
	}
	if c.Arg != nil {
		add("arg", c.Arg)
	}
	if c.Paths != nil {
		add("paths", hashPaths(c.Paths))
	}

	sort.Slice(pairs, func(i, j int) bool { return bytes.Compare(pairs[i], pairs[j]) < 0 })

	h := sha256.New()
	for _, p := range pairs {
		h.Write(p)
	}
	var id [32]byte
	copy(id[:], h.Sum(nil))
	return id
}

// hashPaths hashes a list of paths: each path hashes to the sha256 of the
// concatenated sha256 of its segments, and the list to the concatenation of
// the path hashes.
func hashPaths(paths [][][]byte) []byte {
	var out []byte
	for _, path := range paths {
		h := sha256.New()
		for _, seg := range path {
			s := sha256.Sum256(seg)
			h.Write(s[:])
		}
		out = append(out, h.Sum(nil)...)
	}
	return out
}

// encodeULEB renders an unsigned value in LEB128, the encoding natural
// numbers carry inside the request hash.
func encodeULEB(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// decodeULEB parses a LEB128 unsigned value, used for reject codes carried
// as certificate leaves.
func decodeULEB(data []byte) (uint64, bool) {
	var v uint64
	var shift uint
	for _, b := range data {
		v |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return v, true
		}
		shift += 7
		if shift >= 64 {
			return 0, false
		}
	}
	return 0, false
}
