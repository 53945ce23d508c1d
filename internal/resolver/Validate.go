/*

Input format validation. Every violation found in the raw input is reported,
not just the first one, so a caller can fix the whole request in one pass.

*/

package resolver

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/h34ter/cryptogreed/internal/types"
)

var (
	slugRe    = regexp.MustCompile(`^[a-z0-9-]+$`)
	ethAddrRe = regexp.MustCompile(`^0x[0-9a-f]{40}$`)
	solAddrRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

var validate = newValidator()

// identityInput mirrors the normalized identity for format checking.
// chainRaw/chainKnown carry what the caller actually typed so an unknown
// chain name is reported instead of silently dropped.
type identityInput struct {
	CoinID          string `validate:"omitempty,coin_slug"`
	ContractAddress string
	Chain           types.Chain
	chainKnown      bool
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("coin_slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		input := sl.Current().Interface().(identityInput)

		if input.chainKnown && input.Chain == types.ChainNone {
			sl.ReportError(input.Chain, "Chain", "Chain", "supported_chain", "")
		}

		if input.ContractAddress == "" {
			return
		}
		switch input.Chain {
		case types.ChainEth:
			if !ethAddrRe.MatchString(input.ContractAddress) {
				sl.ReportError(input.ContractAddress, "ContractAddress", "ContractAddress", "eth_addr", "")
			}
		case types.ChainSol:
			if !solAddrRe.MatchString(input.ContractAddress) {
				sl.ReportError(input.ContractAddress, "ContractAddress", "ContractAddress", "sol_addr", "")
			}
		default:
			sl.ReportError(input.ContractAddress, "ContractAddress", "ContractAddress", "addr_chain", "")
		}
	}, identityInput{})

	return v
}

// validateIdentityInput format-checks the normalized identity and returns a
// ValidationError enumerating every violation found.
func validateIdentityInput(identity types.AssetIdentity, rawChain string, chainKnown bool) error {
	input := identityInput{
		CoinID:          identity.CoinID,
		ContractAddress: identity.ContractAddress,
		Chain:           identity.Chain,
		chainKnown:      chainKnown,
	}

	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, violationMessage(fe, rawChain))
	}
	return &types.ValidationError{Violations: violations}
}

func violationMessage(fe validator.FieldError, rawChain string) string {
	switch fe.Tag() {
	case "coin_slug":
		return "coinId must contain only lowercase letters, digits, and hyphens"
	case "eth_addr":
		return "contractAddress must be a 0x-prefixed 40 hex digit address for chain eth"
	case "sol_addr":
		return "contractAddress must be a base58 string of 32 to 44 characters for chain sol"
	case "supported_chain":
		return "chain " + rawChain + " is not supported, expected eth or sol"
	case "addr_chain":
		return "contractAddress given but its chain could not be determined"
	default:
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
}
