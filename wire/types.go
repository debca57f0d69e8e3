// Copyright 2015 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package wire

import "github.com/agildata/zeroproxy/encrypt"

// ColumnType is the MySQL wire protocol's column type byte, used in
// field definition packets.
type ColumnType byte

const (
	TypeDecimal   ColumnType = 0
	TypeTiny      ColumnType = 1
	TypeShort     ColumnType = 2
	TypeLong      ColumnType = 3
	TypeFloat     ColumnType = 4
	TypeDouble    ColumnType = 5
	TypeNull      ColumnType = 6
	TypeTimestamp ColumnType = 7
	TypeLonglong  ColumnType = 8
	TypeInt24     ColumnType = 9
	TypeDate      ColumnType = 10
	TypeDuration  ColumnType = 11
	TypeDatetime  ColumnType = 12
	TypeYear      ColumnType = 13
	TypeNewDate   ColumnType = 14
	TypeVarchar   ColumnType = 15
	TypeBit       ColumnType = 16
	TypeJSON      ColumnType = 0xf5
	TypeNewDecimal ColumnType = 0xf6
	TypeEnum      ColumnType = 0xf7
	TypeSet       ColumnType = 0xf8
	TypeTinyBlob  ColumnType = 0xf9
	TypeMediumBlob ColumnType = 0xfa
	TypeLongBlob  ColumnType = 0xfb
	TypeBlob      ColumnType = 0xfc
	TypeVarString ColumnType = 0xfd
	TypeString    ColumnType = 0xfe
	TypeGeometry  ColumnType = 0xff
)

// ColumnTypeForNative maps a native type onto the wire column type used
// to describe it in a field definition packet.
func ColumnTypeForNative(t encrypt.NativeType) ColumnType {
	switch t {
	case encrypt.TU64, encrypt.TI64, encrypt.TYear:
		return TypeLonglong
	case encrypt.TF64:
		return TypeDouble
	case encrypt.TBool:
		return TypeTiny
	case encrypt.TD128:
		return TypeNewDecimal
	case encrypt.TDateTime:
		return TypeDatetime
	case encrypt.TTimestamp:
		return TypeTimestamp
	case encrypt.TDate:
		return TypeDate
	case encrypt.TTime:
		return TypeDuration
	case encrypt.TLongBlob, encrypt.TFixedBinary, encrypt.TVarBinary:
		return TypeBlob
	case encrypt.TLongText, encrypt.TChar, encrypt.TVarchar:
		return TypeVarString
	default:
		return TypeVarString
	}
}
