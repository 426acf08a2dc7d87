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

package candid

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/dotandev/canact/internal/principal"
	"github.com/dotandev/canact/internal/value"
)

// Candid type codes as they appear in the wire type table.
const (
	typeNull      = -1
	typeBool      = -2
	typeNat       = -3
	typeInt       = -4
	typeNat8      = -5
	typeNat16     = -6
	typeNat32     = -7
	typeNat64     = -8
	typeInt8      = -9
	typeInt16     = -10
	typeInt32     = -11
	typeInt64     = -12
	typeFloat32   = -13
	typeFloat64   = -14
	typeText      = -15
	typeReserved  = -16
	typeEmpty     = -17
	typeOpt       = -18
	typeVec       = -19
	typeRecord    = -20
	typeVariant   = -21
	typeFunc      = -22
	typeService   = -23
	typePrincipal = -24
)

// maxDepth bounds value recursion so a hostile reply cannot blow the stack.
const maxDepth = 512

// ErrorKind classifies decode failures so the dispatcher can decide whether
// the permissive fallback applies. This replaces matching on error message
// substrings.
type ErrorKind int

const (
	// KindBadMagic: the reply does not start with the DIDL magic.
	KindBadMagic ErrorKind = iota
	// KindTruncated: the reply ended mid-value.
	KindTruncated
	// KindBadType: the type table is malformed or references an unknown type.
	KindBadType
	// KindUnknownField: the decoded shape does not match the declared return
	// type (a field or variant arm unknown to it). The probe fallback applies.
	KindUnknownField
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadMagic:
		return "bad magic"
	case KindTruncated:
		return "truncated"
	case KindBadType:
		return "bad type"
	case KindUnknownField:
		return "unknown field"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DecodeError is a typed decode failure.
type DecodeError struct {
	Kind ErrorKind
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("candid decode: %s: %s", e.Kind, e.Msg)
}

func decodeErr(kind ErrorKind, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsSchemaMismatch reports whether the error indicates a schema mismatch for
// which the permissive {ok, err} probe is worth attempting.
func IsSchemaMismatch(err error) bool {
	de, ok := err.(*DecodeError)
	return ok && (de.Kind == KindUnknownField || de.Kind == KindBadType)
}

// wireField is one member of a wire record or variant type.
type wireField struct {
	id  uint64
	typ int64
}

// wireType is one entry of the wire type table.
type wireType struct {
	code   int64
	inner  int64
	fields []wireField
}

type decoder struct {
	r     reader
	table []wireType
}

// Decode decodes a self-describing Candid reply into one Value per argument.
// Record and variant keys come out in their hash-encoded `_N` form, since
// the wire carries only field hashes; the rehydrator restores names.
func Decode(raw []byte) ([]value.Value, error) {
	d := &decoder{r: reader{buf: raw}}

	magic, ok := d.r.bytes(4)
	if !ok || string(magic) != "DIDL" {
		return nil, decodeErr(KindBadMagic, "reply does not start with DIDL")
	}

	if err := d.readTypeTable(); err != nil {
		return nil, err
	}

	argc, ok := d.r.uleb()
	if !ok {
		return nil, decodeErr(KindTruncated, "argument count missing")
	}
	refs := make([]int64, argc)
	for i := range refs {
		ref, ok := d.r.sleb()
		if !ok {
			return nil, decodeErr(KindTruncated, "argument type missing")
		}
		refs[i] = ref
	}

	vals := make([]value.Value, argc)
	for i, ref := range refs {
		v, err := d.decodeValue(ref, 0)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// DecodeWithType decodes the reply and then checks the top-level shape
// against the declared return-type expression. A reply whose variant arm or
// record fields are unknown to the declaration fails with KindUnknownField
// so the dispatcher can fall back to the permissive probe.
func DecodeWithType(raw []byte, typeExpr string) ([]value.Value, error) {
	vals, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := checkAgainstType(vals, typeExpr); err != nil {
		return nil, err
	}
	return vals, nil
}

// ProbeResult is the last-resort decode: it accepts any reply whose first
// value is a single-arm variant tagged ok or err, mirroring a decode at
// `variant { ok : reserved; err : reserved }`.
func ProbeResult(raw []byte) ([]value.Value, error) {
	vals, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, decodeErr(KindUnknownField, "reply carries no values to probe")
	}
	top := vals[0]
	if top.Kind != value.KindMap || len(top.Fields) != 1 {
		return nil, decodeErr(KindUnknownField, "reply is not a result variant")
	}
	h, ok := value.HashedKey(top.Fields[0].Key)
	if !ok {
		return nil, decodeErr(KindUnknownField, "reply key %q is not hash-encoded", top.Fields[0].Key)
	}
	if h != FieldHash("ok") && h != FieldHash("err") {
		return nil, decodeErr(KindUnknownField, "variant arm %d is neither ok nor err", h)
	}
	return vals, nil
}

func (d *decoder) readTypeTable() error {
	count, ok := d.r.uleb()
	if !ok {
		return decodeErr(KindTruncated, "type table count missing")
	}
	if count > uint64(d.r.remaining()) {
		return decodeErr(KindBadType, "type table count %d exceeds message size", count)
	}

	d.table = make([]wireType, count)
	for i := range d.table {
		code, ok := d.r.sleb()
		if !ok {
			return decodeErr(KindTruncated, "type table entry %d missing", i)
		}
		entry := wireType{code: code}

		switch code {
		case typeOpt, typeVec:
			inner, ok := d.r.sleb()
			if !ok {
				return decodeErr(KindTruncated, "inner type of entry %d missing", i)
			}
			entry.inner = inner

		case typeRecord, typeVariant:
			n, ok := d.r.uleb()
			if !ok {
				return decodeErr(KindTruncated, "field count of entry %d missing", i)
			}
			if n > uint64(d.r.remaining()) {
				return decodeErr(KindBadType, "field count %d exceeds message size", n)
			}
			entry.fields = make([]wireField, n)
			for j := range entry.fields {
				id, ok := d.r.uleb()
				if !ok {
					return decodeErr(KindTruncated, "field id missing in entry %d", i)
				}
				typ, ok := d.r.sleb()
				if !ok {
					return decodeErr(KindTruncated, "field type missing in entry %d", i)
				}
				entry.fields[j] = wireField{id: id, typ: typ}
			}

		case typeFunc:
			if err := d.skipFuncType(); err != nil {
				return err
			}

		case typeService:
			if err := d.skipServiceType(); err != nil {
				return err
			}

		default:
			if code >= 0 {
				return decodeErr(KindBadType, "type table entry %d is a bare reference", i)
			}
			// Primitive codes are not legal table entries but some encoders
			// emit them; accept and treat as the primitive.
		}
		d.table[i] = entry
	}
	return nil
}

func (d *decoder) skipFuncType() error {
	for range 2 {
		n, ok := d.r.uleb()
		if !ok {
			return decodeErr(KindTruncated, "func type truncated")
		}
		for range n {
			if _, ok := d.r.sleb(); !ok {
				return decodeErr(KindTruncated, "func type truncated")
			}
		}
	}
	anns, ok := d.r.uleb()
	if !ok {
		return decodeErr(KindTruncated, "func annotations truncated")
	}
	if _, ok := d.r.bytes(int(anns)); !ok {
		return decodeErr(KindTruncated, "func annotations truncated")
	}
	return nil
}

func (d *decoder) skipServiceType() error {
	n, ok := d.r.uleb()
	if !ok {
		return decodeErr(KindTruncated, "service type truncated")
	}
	for range n {
		nameLen, ok := d.r.uleb()
		if !ok {
			return decodeErr(KindTruncated, "service method name truncated")
		}
		if _, ok := d.r.bytes(int(nameLen)); !ok {
			return decodeErr(KindTruncated, "service method name truncated")
		}
		if _, ok := d.r.sleb(); !ok {
			return decodeErr(KindTruncated, "service method type truncated")
		}
	}
	return nil
}

// resolve follows a type reference into the table until it reaches a
// primitive or composite entry.
func (d *decoder) resolve(ref int64) (wireType, error) {
	for range len(d.table) + 1 {
		if ref < 0 {
			return wireType{code: ref}, nil
		}
		if ref >= int64(len(d.table)) {
			return wireType{}, decodeErr(KindBadType, "type reference %d out of range", ref)
		}
		entry := d.table[ref]
		if entry.code >= 0 {
			ref = entry.code
			continue
		}
		return entry, nil
	}
	return wireType{}, decodeErr(KindBadType, "type reference cycle at %d", ref)
}

func (d *decoder) decodeValue(ref int64, depth int) (value.Value, error) {
	if depth > maxDepth {
		return value.Value{}, decodeErr(KindBadType, "value nesting exceeds %d levels", maxDepth)
	}

	t, err := d.resolve(ref)
	if err != nil {
		return value.Value{}, err
	}

	switch t.code {
	case typeNull, typeReserved:
		return value.Null(), nil

	case typeBool:
		b, ok := d.r.byte()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "bool value missing")
		}
		return value.Bool(b != 0), nil

	case typeNat:
		n, ok := d.r.ulebBig()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "nat value truncated")
		}
		return value.Int(n), nil

	case typeInt:
		n, ok := d.r.slebBig()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "int value truncated")
		}
		return value.Int(n), nil

	case typeNat8:
		b, ok := d.r.byte()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "nat8 value missing")
		}
		return value.Int64(int64(b)), nil

	case typeNat16:
		b, ok := d.r.bytes(2)
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "nat16 value missing")
		}
		return value.Int64(int64(binary.LittleEndian.Uint16(b))), nil

	case typeNat32:
		b, ok := d.r.bytes(4)
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "nat32 value missing")
		}
		return value.Int64(int64(binary.LittleEndian.Uint32(b))), nil

	case typeNat64:
		b, ok := d.r.bytes(8)
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "nat64 value missing")
		}
		return value.Int(new(big.Int).SetUint64(binary.LittleEndian.Uint64(b))), nil

	case typeInt8:
		b, ok := d.r.byte()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "int8 value missing")
		}
		return value.Int64(int64(int8(b))), nil

	case typeInt16:
		b, ok := d.r.bytes(2)
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "int16 value missing")
		}
		return value.Int64(int64(int16(binary.LittleEndian.Uint16(b)))), nil

	case typeInt32:
		b, ok := d.r.bytes(4)
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "int32 value missing")
		}
		return value.Int64(int64(int32(binary.LittleEndian.Uint32(b)))), nil

	case typeInt64:
		b, ok := d.r.bytes(8)
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "int64 value missing")
		}
		return value.Int64(int64(binary.LittleEndian.Uint64(b))), nil

	case typeFloat32:
		b, ok := d.r.bytes(4)
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "float32 value missing")
		}
		return value.Float(float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))), nil

	case typeFloat64:
		b, ok := d.r.bytes(8)
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "float64 value missing")
		}
		return value.Float(math.Float64frombits(binary.LittleEndian.Uint64(b))), nil

	case typeText:
		n, ok := d.r.uleb()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "text length missing")
		}
		b, ok := d.r.bytes(int(n))
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "text value truncated")
		}
		return value.Text(string(b)), nil

	case typeEmpty:
		return value.Value{}, decodeErr(KindBadType, "empty type carries no values")

	case typeOpt:
		flag, ok := d.r.byte()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "opt flag missing")
		}
		switch flag {
		case 0:
			// Absent optionals surface as an empty list, the shape the
			// normalizers key on.
			return value.List(), nil
		case 1:
			inner, err := d.decodeValue(t.inner, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			return value.List(inner), nil
		default:
			return value.Value{}, decodeErr(KindBadType, "opt flag %d out of range", flag)
		}

	case typeVec:
		n, ok := d.r.uleb()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "vec length missing")
		}
		innerType, err := d.resolve(t.inner)
		if err != nil {
			return value.Value{}, err
		}
		if innerType.code == typeNat8 {
			b, ok := d.r.bytes(int(n))
			if !ok {
				return value.Value{}, decodeErr(KindTruncated, "blob truncated")
			}
			out := make([]byte, len(b))
			copy(out, b)
			return value.Bytes(out), nil
		}
		if n > uint64(d.r.remaining()) {
			return value.Value{}, decodeErr(KindBadType, "vec length %d exceeds message size", n)
		}
		items := make([]value.Value, n)
		for i := range items {
			item, err := d.decodeValue(t.inner, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = item
		}
		return value.List(items...), nil

	case typeRecord:
		fields := make([]value.Field, len(t.fields))
		for i, f := range t.fields {
			v, err := d.decodeValue(f.typ, depth+1)
			if err != nil {
				return value.Value{}, err
			}
			fields[i] = value.Field{Key: hashKey(f.id), Val: v}
		}
		return value.Map(fields...), nil

	case typeVariant:
		idx, ok := d.r.uleb()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "variant index missing")
		}
		if idx >= uint64(len(t.fields)) {
			return value.Value{}, decodeErr(KindUnknownField, "variant index %d out of range (%d arms)", idx, len(t.fields))
		}
		arm := t.fields[idx]
		v, err := d.decodeValue(arm.typ, depth+1)
		if err != nil {
			return value.Value{}, err
		}
		return value.Map(value.Field{Key: hashKey(arm.id), Val: v}), nil

	case typeFunc:
		flag, ok := d.r.byte()
		if !ok || flag != 1 {
			return value.Value{}, decodeErr(KindBadType, "opaque func reference unsupported")
		}
		p, err := d.decodePrincipal()
		if err != nil {
			return value.Value{}, err
		}
		n, ok := d.r.uleb()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "func method name missing")
		}
		name, ok := d.r.bytes(int(n))
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "func method name truncated")
		}
		return value.Map(
			value.Field{Key: "principal", Val: value.Principal(p)},
			value.Field{Key: "method", Val: value.Text(string(name))},
		), nil

	case typeService:
		flag, ok := d.r.byte()
		if !ok || flag != 1 {
			return value.Value{}, decodeErr(KindBadType, "opaque service reference unsupported")
		}
		p, err := d.decodePrincipal()
		if err != nil {
			return value.Value{}, err
		}
		return value.Principal(p), nil

	case typePrincipal:
		flag, ok := d.r.byte()
		if !ok {
			return value.Value{}, decodeErr(KindTruncated, "principal flag missing")
		}
		if flag != 1 {
			return value.Value{}, decodeErr(KindBadType, "opaque principal reference unsupported")
		}
		p, err := d.decodePrincipal()
		if err != nil {
			return value.Value{}, err
		}
		return value.Principal(p), nil

	default:
		return value.Value{}, decodeErr(KindBadType, "unknown type code %d", t.code)
	}
}

func (d *decoder) decodePrincipal() (principal.Principal, error) {
	n, ok := d.r.uleb()
	if !ok {
		return principal.Principal{}, decodeErr(KindTruncated, "principal length missing")
	}
	b, ok := d.r.bytes(int(n))
	if !ok {
		return principal.Principal{}, decodeErr(KindTruncated, "principal bytes truncated")
	}
	p, err := principal.FromBytes(b)
	if err != nil {
		return principal.Principal{}, decodeErr(KindBadType, "principal: %v", err)
	}
	return p, nil
}

// hashKey renders a field id in the placeholder form the rehydrator
// recognizes.
func hashKey(id uint64) string {
	return "_" + strconv.FormatUint(id, 10)
}

// checkAgainstType shallowly validates decoded values against the declared
// return-type expression. Only the top-level shape is checked: a variant
// declaration constrains the first value's arm, a record declaration its
// field set. Deeper mismatches surface later as soft normalization no-ops,
// never as call failures.
func checkAgainstType(vals []value.Value, typeExpr string) error {
	expr := StripComments(typeExpr)
	if len(vals) == 0 {
		return nil
	}
	top := vals[0]

	known := func(names []string) map[uint32]bool {
		set := make(map[uint32]bool, len(names)+2)
		for _, n := range names {
			set[FieldHash(n)] = true
		}
		// Shorthand result arms are always admissible.
		set[FieldHash("ok")] = true
		set[FieldHash("err")] = true
		return set
	}

	switch {
	case hasPrefixWord(expr, "variant"):
		if top.Kind != value.KindMap || len(top.Fields) != 1 {
			return decodeErr(KindUnknownField, "declared variant, reply is %s", top.Kind)
		}
		var names []string
		for _, body := range Blocks(expr, "variant") {
			names = append(names, HarvestVariantNames(body)...)
		}
		set := known(names)
		if h, ok := value.HashedKey(top.Fields[0].Key); ok && !set[h] {
			return decodeErr(KindUnknownField, "variant arm %d not declared", h)
		}
		return nil

	case hasPrefixWord(expr, "record"):
		if top.Kind != value.KindMap {
			return decodeErr(KindUnknownField, "declared record, reply is %s", top.Kind)
		}
		var names []string
		for _, body := range Blocks(expr, "record") {
			names = append(names, HarvestRecordNames(body)...)
		}
		set := known(names)
		tuple := true
		for _, f := range top.Fields {
			if h, ok := value.HashedKey(f.Key); ok {
				// Tuple records use positional ids; tolerate them.
				if h >= uint32(len(top.Fields)) {
					tuple = false
				}
				if !tuple && !set[h] {
					return decodeErr(KindUnknownField, "record field %d not declared", h)
				}
			}
		}
		return nil

	default:
		// Scalar or aliased declarations: nothing to check shallowly.
		return nil
	}
}

func hasPrefixWord(s, word string) bool {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if len(s)-i < len(word) || s[i:i+len(word)] != word {
		return false
	}
	rest := i + len(word)
	return rest == len(s) || !isIdentPart(s[rest])
}
