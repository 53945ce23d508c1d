/*

This is the canonical asset identity used throughout the engine. A request is
only allowed to hit the upstream providers once its identity has been resolved
into this triple, and the triple doubles as the cache key material.

*/

package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Chain identifies the network a token contract lives on.
type Chain string

const (
	ChainEth  Chain = "eth"
	ChainSol  Chain = "sol"
	ChainNone Chain = ""
)

// AssetIdentity is the resolved (coinId, contractAddress, chain) triple.
// Native coins without a token contract carry an empty contract address and
// ChainNone; that is a valid, complete identity as long as CoinID is set.
type AssetIdentity struct {
	CoinID          string `json:"coin_id"`
	ContractAddress string `json:"contract_address,omitempty"`
	Chain           Chain  `json:"chain,omitempty"`
}

// HasContract reports whether the identity names a token contract.
func (a AssetIdentity) HasContract() bool {
	return a.ContractAddress != "" && a.Chain != ChainNone
}

// Complete reports whether the identity is usable for aggregation: either a
// provider slug or a (contract, chain) pair must be known.
func (a AssetIdentity) Complete() bool {
	return a.CoinID != "" || a.HasContract()
}

// Digest returns a stable, case-normalized key for this identity. Two requests
// resolving to the same triple always produce the same digest.
func (a AssetIdentity) Digest() string {
	material := strings.ToLower(a.CoinID) + "|" +
		strings.ToLower(a.ContractAddress) + "|" +
		strings.ToLower(string(a.Chain))
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}
