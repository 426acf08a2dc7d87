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
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/dotandev/canact/internal/errors"
)

// Hash tree node tags as they appear on the wire.
const (
	treeEmpty   = 0
	treeFork    = 1
	treeLabeled = 2
	treeLeaf    = 3
	treePruned  = 4
)

// certificate is the state snapshot returned by read_state. Only the tree is
// consumed here; signature verification is out of scope for an anonymous
// read-path client.
type certificate struct {
	Tree cbor.RawMessage `cbor:"tree"`
}

// parseCertificate decodes the CBOR certificate blob from a read_state
// response.
func parseCertificate(raw []byte) (*certificate, error) {
	var cert certificate
	if err := cbor.Unmarshal(stripSelfDescribed(raw), &cert); err != nil {
		return nil, errors.WrapUnmarshalFailed(fmt.Errorf("certificate: %w", err))
	}
	if cert.Tree == nil {
		return nil, errors.WrapUnmarshalFailed(fmt.Errorf("certificate has no state tree"))
	}
	return &cert, nil
}

// Lookup walks the state tree along path and returns the leaf value, if the
// tree contains one there. Pruned subtrees and missing labels both report
// absence.
func (c *certificate) Lookup(path ...[]byte) ([]byte, bool, error) {
	return lookupTree(c.Tree, path)
}

func lookupTree(node cbor.RawMessage, path [][]byte) ([]byte, bool, error) {
	var parts []cbor.RawMessage
	if err := cbor.Unmarshal(node, &parts); err != nil {
		return nil, false, errors.WrapUnmarshalFailed(fmt.Errorf("state tree node: %w", err))
	}
	if len(parts) == 0 {
		return nil, false, errors.WrapUnmarshalFailed(fmt.Errorf("empty state tree node"))
	}

	var tag uint64
	if err := cbor.Unmarshal(parts[0], &tag); err != nil {
		return nil, false, errors.WrapUnmarshalFailed(fmt.Errorf("state tree node tag: %w", err))
	}

	if len(path) == 0 {
		if tag == treeLeaf && len(parts) == 2 {
			var leaf []byte
			if err := cbor.Unmarshal(parts[1], &leaf); err != nil {
				return nil, false, errors.WrapUnmarshalFailed(fmt.Errorf("state tree leaf: %w", err))
			}
			return leaf, true, nil
		}
		return nil, false, nil
	}

	switch tag {
	case treeFork:
		if len(parts) != 3 {
			return nil, false, errors.WrapUnmarshalFailed(fmt.Errorf("fork node with %d parts", len(parts)))
		}
		if v, found, err := lookupTree(parts[1], path); err != nil || found {
			return v, found, err
		}
		return lookupTree(parts[2], path)
	case treeLabeled:
		if len(parts) != 3 {
			return nil, false, errors.WrapUnmarshalFailed(fmt.Errorf("labeled node with %d parts", len(parts)))
		}
		var label []byte
		if err := cbor.Unmarshal(parts[1], &label); err != nil {
			return nil, false, errors.WrapUnmarshalFailed(fmt.Errorf("state tree label: %w", err))
		}
		if !bytes.Equal(label, path[0]) {
			return nil, false, nil
		}
		return lookupTree(parts[2], path[1:])
	case treeEmpty, treeLeaf, treePruned:
		return nil, false, nil
	default:
		return nil, false, errors.WrapUnmarshalFailed(fmt.Errorf("unknown state tree tag %d", tag))
	}
}
