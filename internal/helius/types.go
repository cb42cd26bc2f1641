package helius

// TokenMetadataResult is the result of getTokenMetadata.
type TokenMetadataResult struct {
	Decimals *int   `json:"decimals"`
	Symbol   string `json:"symbol"`
}

// PricingResult is the result of getAssetPricing.
type PricingResult struct {
	Price float64 `json:"price"`
}

// ProgramAccount is one entry from getProgramAccounts with jsonParsed
// encoding.
type ProgramAccount struct {
	Pubkey  string      `json:"pubkey"`
	Account AccountData `json:"account"`
}

// AccountData wraps the parsed account payload.
type AccountData struct {
	Data ParsedData `json:"data"`
}

// ParsedData is the jsonParsed data envelope of an SPL token account.
type ParsedData struct {
	Parsed ParsedAccount `json:"parsed"`
}

// ParsedAccount holds the decoded account type and info.
type ParsedAccount struct {
	Type string      `json:"type"`
	Info AccountInfo `json:"info"`
}

// AccountInfo is the SPL token account body.
type AccountInfo struct {
	Mint        string       `json:"mint"`
	Owner       string       `json:"owner"`
	TokenAmount *TokenAmount `json:"tokenAmount"`
}

// TokenAmount is an SPL amount with its decimal scale.
type TokenAmount struct {
	Amount   string  `json:"amount"`
	Decimals int     `json:"decimals"`
	UIAmount float64 `json:"uiAmount"`
}

// SignatureInfo is one entry from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string      `json:"signature"`
	Slot      int64       `json:"slot"`
	BlockTime *int64      `json:"blockTime"`
	Err       interface{} `json:"err"`
}

// SignaturesOpts defines optional parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // start searching backwards from this signature
	Until  string // search until this signature
	Limit  int    // maximum number of signatures to return
}

// Transaction is a parsed transaction from getTransaction.
type Transaction struct {
	Slot      int64            `json:"slot"`
	BlockTime *int64           `json:"blockTime"`
	Meta      *TransactionMeta `json:"meta"`
}

// TransactionMeta carries the error marker and enriched inner
// instructions.
type TransactionMeta struct {
	Err               interface{}        `json:"err"`
	InnerInstructions []InnerInstruction `json:"innerInstructions"`
}

// InnerInstruction groups token transfers emitted by inner program
// invocations.
type InnerInstruction struct {
	Index          int             `json:"index"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers"`
}

// TokenTransfer is an enriched SPL transfer inside a transaction.
type TokenTransfer struct {
	Mint            string  `json:"mint"`
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	TokenAmount     float64 `json:"tokenAmount"`
}
