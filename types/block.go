package types

import "time"

// RPCResponse is the JSON-RPC envelope returned by the CometBFT RPC.
type RPCResponse[T any] struct {
	JSONRPC string    `json:"jsonrpc,omitempty"`
	Result  T         `json:"result"`
	Error   *RPCError `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// BlockResult is the result of /block_by_hash.
type BlockResult struct {
	BlockID struct {
		Hash          string `json:"hash,omitempty"`
		PartSetHeader struct {
			Total int    `json:"total,omitempty"`
			Hash  string `json:"hash,omitempty"`
		} `json:"parts,omitempty"`
	} `json:"block_id,omitempty"`
	Block *Block `json:"block,omitempty"`
}

type Block struct {
	Header struct {
		Version struct {
			Block string `json:"block,omitempty"`
		} `json:"version,omitempty"`
		ChainID     string    `json:"chain_id,omitempty"`
		Height      string    `json:"height,omitempty"`
		Time        time.Time `json:"time,omitempty"`
		LastBlockID struct {
			Hash string `json:"hash,omitempty"`
		} `json:"last_block_id,omitempty"`
		DataHash        string `json:"data_hash,omitempty"`
		AppHash         string `json:"app_hash,omitempty"`
		ProposerAddress string `json:"proposer_address,omitempty"`
	} `json:"header,omitempty"`
	Data struct {
		Txs [][]byte `json:"txs,omitempty"`
	} `json:"data,omitempty"`
}

// TxResponse is the result of /tx. Tx holds the raw TxRaw bytes.
type TxResponse struct {
	Hash     string `json:"hash,omitempty"`
	Height   string `json:"height,omitempty"`
	Index    uint32 `json:"index,omitempty"`
	TxResult struct {
		Code      uint32 `json:"code,omitempty"`
		Log       string `json:"log,omitempty"`
		GasWanted string `json:"gas_wanted,omitempty"`
		GasUsed   string `json:"gas_used,omitempty"`
	} `json:"tx_result,omitempty"`
	Tx []byte `json:"tx,omitempty"`
}
