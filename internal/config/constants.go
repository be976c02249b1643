package config

import "time"

// Transaction and display parameters shared by the registry client and the CLI.
const (
	GasMarginPercent  = 20   // added on top of eth_estimateGas before sending
	DisplayPrecision  = 3    // decimal places shown for ETH amounts
	MaxItemsPerQuery  = 1000 // subgraph page size for the items list
	ErrorMessageLimit = 100  // notifications are cut to this many characters
)

// Timeout constants used across cmd and internal clients.
const (
	HTTPTimeout         = 15 * time.Second // JSON-RPC, subgraph and IPFS requests
	RPCSelectTimeout    = 10 * time.Second // endpoint benchmark before picking an RPC
	TxConfirmTimeout    = 3 * time.Minute  // standard transaction confirmation wait
	ReceiptPollInterval = 2 * time.Second
)
