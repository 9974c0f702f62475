package decoder

import "fmt"

// AttoExponent is the exponent of the common fee unit (10^-18).
const AttoExponent = 18

// Config describes the chain a Decoder instance works for. Every Decoder
// carries its own copy so several chains can be decoded side by side.
type Config struct {
	// NativeDenom is the denomination fees are normalized from, e.g. "untrn".
	NativeDenom string
	// NativeDecimals is the exponent of NativeDenom, usually 6 or 18.
	NativeDecimals uint32
	// Bech32Prefix is the account address prefix, e.g. "neutron".
	Bech32Prefix string
	// MinimumGasPriceDenom is the denomination fees are accepted in. Empty
	// means NativeDenom.
	MinimumGasPriceDenom string
}

func (c Config) Validate() error {
	if c.NativeDenom == "" {
		return fmt.Errorf("native denom is required")
	}
	if c.Bech32Prefix == "" {
		return fmt.Errorf("bech32 prefix is required")
	}
	if c.NativeDecimals > AttoExponent {
		return fmt.Errorf("native decimals %d exceed %d", c.NativeDecimals, AttoExponent)
	}
	return nil
}

// SupportedFeeDenom is the only denomination fees may be expressed in.
func (c Config) SupportedFeeDenom() string {
	if c.MinimumGasPriceDenom != "" {
		return c.MinimumGasPriceDenom
	}
	return c.NativeDenom
}
