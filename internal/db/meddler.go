package db

import (
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

func init() {
	meddler.Register("hash", HashMeddler{})
	meddler.Register("address", AddressMeddler{})
}

// HashMeddler stores common.Hash and *common.Hash values as 0x-prefixed hex text.
type HashMeddler struct{}

func (HashMeddler) PreRead(any) (any, error) {
	return new(sql.NullString), nil
}

func (HashMeddler) PostRead(fieldAddr, scanTarget any) error {
	return postReadHex(fieldAddr, scanTarget, common.HexToHash)
}

func (HashMeddler) PreWrite(field any) (any, error) {
	switch v := field.(type) {
	case common.Hash:
		return v.Hex(), nil
	case *common.Hash:
		if v == nil {
			return nil, nil
		}
		return v.Hex(), nil
	default:
		return nil, fmt.Errorf("hash meddler: unsupported type %T", field)
	}
}

// AddressMeddler stores common.Address and *common.Address values as checksummed hex text.
type AddressMeddler struct{}

func (AddressMeddler) PreRead(any) (any, error) {
	return new(sql.NullString), nil
}

func (AddressMeddler) PostRead(fieldAddr, scanTarget any) error {
	return postReadHex(fieldAddr, scanTarget, common.HexToAddress)
}

func (AddressMeddler) PreWrite(field any) (any, error) {
	switch v := field.(type) {
	case common.Address:
		return v.Hex(), nil
	case *common.Address:
		if v == nil {
			return nil, nil
		}
		return v.Hex(), nil
	default:
		return nil, fmt.Errorf("address meddler: unsupported type %T", field)
	}
}

// postReadHex decodes a nullable hex column into a T or *T field. NULL yields the zero value or nil.
func postReadHex[T any](fieldAddr, scanTarget any, decode func(string) T) error {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return fmt.Errorf("expected *sql.NullString, got %T", scanTarget)
	}

	switch ptr := fieldAddr.(type) {
	case *T:
		var v T
		if ns.Valid {
			v = decode(ns.String)
		}
		*ptr = v
	case **T:
		if !ns.Valid {
			*ptr = nil
			return nil
		}
		v := decode(ns.String)
		*ptr = &v
	default:
		return fmt.Errorf("unsupported field type %T", fieldAddr)
	}

	return nil
}
