package contract

import (
	"golang.org/x/crypto/sha3"
)

// Selector returns the 4-byte function selector for a canonical signature
// such as "transfer(address,uint256)".
func Selector(signature string) [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	var out [4]byte
	copy(out[:], h.Sum(nil)[:4])
	return out
}

// InterfaceID computes an ERC-165 interface identifier: the XOR of the
// selectors of every function in the interface.
func InterfaceID(signatures ...string) [4]byte {
	var id [4]byte
	for _, sig := range signatures {
		s := Selector(sig)
		for i := range id {
			id[i] ^= s[i]
		}
	}
	return id
}

// ERC721EnumerableID is 0x780e9d63.
var ERC721EnumerableID = InterfaceID(
	"totalSupply()",
	"tokenOfOwnerByIndex(address,uint256)",
	"tokenByIndex(uint256)",
)
