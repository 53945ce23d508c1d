/*

Identity resolution: turns loosely specified user input (a free-text name, a
provider slug, or a contract address) into the canonical triple. Each
resolution step only runs when its output is still missing, so a request that
already carries a complete identity never touches the network.

A supplied contract address takes priority for determining the chain and
contract; the free-text name may still seed the coin id when no slug can be
derived any other way.

*/

package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/h34ter/cryptogreed/internal/datafetcher"
	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/types"
)

var resolverLogger = logger.GetForComponent("identity_resolver")

// marketLookup is the slice of the market-data provider the resolver needs.
type marketLookup interface {
	Search(ctx context.Context, query string) (string, error)
	Detail(ctx context.Context, coinID string) (datafetcher.CoinDetail, error)
	ByContract(ctx context.Context, chain types.Chain, address string) (string, error)
}

// Resolver produces canonical asset identities.
type Resolver struct {
	market marketLookup
}

// New wires a resolver against the market-data provider client.
func New(market *datafetcher.MarketClient) *Resolver {
	return &Resolver{market: market}
}

// Resolve turns the raw request into a complete AssetIdentity or fails with
// a ValidationError, NotFoundError, UpstreamError, or ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, req types.AnalyzeRequest) (types.AssetIdentity, error) {
	name := strings.TrimSpace(req.CoinName)
	identity := types.AssetIdentity{
		CoinID:          strings.ToLower(strings.TrimSpace(req.CoinID)),
		ContractAddress: strings.TrimSpace(req.ContractAddress),
	}

	chain, chainKnown := parseChain(req.Chain)
	identity.Chain = chain

	if name == "" && identity.CoinID == "" && identity.ContractAddress == "" {
		return types.AssetIdentity{}, &types.ResolutionError{Reason: "no identifying input supplied"}
	}

	// The chain may be derivable from the address shape when not supplied.
	if identity.ContractAddress != "" && identity.Chain == types.ChainNone {
		identity.Chain = inferChain(identity.ContractAddress)
	}
	if identity.Chain == types.ChainEth {
		identity.ContractAddress = strings.ToLower(identity.ContractAddress)
	}

	if err := validateIdentityInput(identity, req.Chain, chainKnown); err != nil {
		return types.AssetIdentity{}, err
	}

	// Step 1: only a free-text name. Take the first search match's slug.
	if identity.CoinID == "" && identity.ContractAddress == "" {
		slug, err := r.market.Search(ctx, name)
		if err != nil {
			return types.AssetIdentity{}, err
		}
		identity.CoinID = slug
	}

	// Step 3: contract known, slug not. Reverse-resolve the contract; the
	// name may still seed the slug when the provider does not list it.
	if identity.CoinID == "" && identity.HasContract() {
		slug, err := r.market.ByContract(ctx, identity.Chain, identity.ContractAddress)
		switch {
		case err == nil:
			identity.CoinID = slug
		case isNotFound(err) && name != "":
			slug, err = r.market.Search(ctx, name)
			if err != nil {
				return types.AssetIdentity{}, err
			}
			identity.CoinID = slug
		default:
			return types.AssetIdentity{}, err
		}
	}

	// Step 2: slug known, contract not. The detail listing decides whether
	// this is an eth token, a sol token, or a native coin with no contract.
	if identity.CoinID != "" && identity.ContractAddress == "" {
		detail, err := r.market.Detail(ctx, identity.CoinID)
		if err != nil {
			return types.AssetIdentity{}, err
		}
		identity.ContractAddress, identity.Chain = contractFromPlatforms(detail.Platforms)
	}

	if !identity.Complete() || identity.CoinID == "" {
		return types.AssetIdentity{}, &types.ResolutionError{Reason: "identity could not be completed from the given input"}
	}

	resolverLogger.Debug().
		Str("coinId", identity.CoinID).
		Str("contract", identity.ContractAddress).
		Str("chain", string(identity.Chain)).
		Msg("Identity resolved")

	return identity, nil
}

// parseChain normalizes the raw chain input. The second return reports
// whether the input named a chain at all (valid or not).
func parseChain(raw string) (types.Chain, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return types.ChainNone, false
	case "eth", "ethereum":
		return types.ChainEth, true
	case "sol", "solana":
		return types.ChainSol, true
	default:
		return types.ChainNone, true
	}
}

func inferChain(address string) types.Chain {
	switch {
	case strings.HasPrefix(address, "0x"):
		return types.ChainEth
	case solAddrRe.MatchString(address):
		return types.ChainSol
	default:
		return types.ChainNone
	}
}

func contractFromPlatforms(platforms map[string]string) (string, types.Chain) {
	if addr := platforms["ethereum"]; addr != "" {
		return strings.ToLower(addr), types.ChainEth
	}
	if addr := platforms["solana"]; addr != "" {
		return addr, types.ChainSol
	}
	// A native coin with no token contract; not an error.
	return "", types.ChainNone
}

func isNotFound(err error) bool {
	var notFound *types.NotFoundError
	return errors.As(err, &notFound)
}
