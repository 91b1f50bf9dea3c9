package filter

import (
	"crypto/sha256"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// Fingerprint returns the identity of f on chain chainID as a 0x-prefixed hex string.
//
// The sha256 pre-image is the 32-byte big-endian chain id and start block, then for every
// topic position its member count followed by the sorted members, then the sorted addresses
// left-padded to 32 bytes. The digest is hashed again with keccak256. Duplicates are ignored
// so filters equal as sets share a fingerprint.
func Fingerprint(f Filter, chainID uint64) string {
	h := sha256.New()

	h.Write(uint256(chainID))
	h.Write(uint256(f.ResolvedStartBlock()))

	for _, topics := range f.Topics {
		topics = sortedUnique(topics)
		h.Write(uint256(uint64(len(topics))))
		for _, topic := range topics {
			h.Write(topic.Bytes())
		}
	}

	for _, addr := range sortedUnique(f.Addresses) {
		h.Write(common.LeftPadBytes(addr.Bytes(), common.HashLength))
	}

	return crypto.Keccak256Hash(h.Sum(nil)).Hex()
}

func uint256(v uint64) []byte {
	return math.U256Bytes(new(big.Int).SetUint64(v))
}
