package main

import (
	"errors"
	"net/http"

	"github.com/allora-network/cosmos-txn-decoder/decoder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// TxnsDecodedTotal counts decode attempts per outcome kind
	TxnsDecodedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decoder_txns_total",
			Help: "Total transactions processed, by outcome",
		},
		[]string{"chain", "outcome"},
	)

	// BlocksDecodedTotal counts block lookups per outcome kind
	BlocksDecodedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decoder_blocks_total",
			Help: "Total blocks processed, by outcome",
		},
		[]string{"chain", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(TxnsDecodedTotal)
	prometheus.MustRegister(BlocksDecodedTotal)
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{decoder.ErrHashMismatch, "hash_mismatch"},
	{decoder.ErrUnrecognizedKeyType, "unrecognized_key_type"},
	{decoder.ErrPublicKeyEncoding, "public_key_encoding"},
	{decoder.ErrAddressDerivation, "address_derivation"},
	{decoder.ErrNoSignerInfo, "no_signer_info"},
	{decoder.ErrNoContractMessage, "no_contract_message"},
	{decoder.ErrMultipleContractMessages, "multiple_contract_messages"},
	{decoder.ErrUnsupportedFeeDenomination, "unsupported_fee_denomination"},
	{decoder.ErrMalformedTransactionBytes, "malformed_transaction_bytes"},
	{decoder.ErrMalformedResponse, "malformed_response"},
	{decoder.ErrEmptyBlock, "empty_block"},
	{decoder.ErrFeeOverflow, "fee_overflow"},
}

// outcomeKind maps an error to a metric label. Errors that are not decoder
// errors come from fetching.
func outcomeKind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "fetch_error"
}

// initChainMetrics makes every series visible before the first event.
func initChainMetrics(chain string) {
	TxnsDecodedTotal.WithLabelValues(chain, "ok").Add(0)
	BlocksDecodedTotal.WithLabelValues(chain, "ok").Add(0)
	for _, k := range errorKinds {
		TxnsDecodedTotal.WithLabelValues(chain, k.kind).Add(0)
	}
}

func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		log.Info().Str("addr", addr).Msg("Metrics server listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Msg("Metrics server error")
		}
	}()
}
