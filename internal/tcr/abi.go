package tcr

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Subset of the LightGeneralizedTCR ABI used by the client.
const registryABIJSON = `[
  {"type":"function","name":"submissionBaseDeposit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"removalBaseDeposit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"submissionChallengeBaseDeposit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"removalChallengeBaseDeposit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"challengePeriodDuration","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"arbitrator","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"arbitratorExtraData","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes"}]},
  {"type":"function","name":"getItemInfo","stateMutability":"view",
   "inputs":[{"name":"_itemID","type":"bytes32"}],
   "outputs":[{"name":"status","type":"uint8"},{"name":"numberOfRequests","type":"uint256"},{"name":"sumDeposit","type":"uint256"}]},
  {"type":"function","name":"getRequestInfo","stateMutability":"view",
   "inputs":[{"name":"_itemID","type":"bytes32"},{"name":"_requestID","type":"uint256"}],
   "outputs":[
     {"name":"disputed","type":"bool"},
     {"name":"disputeID","type":"uint256"},
     {"name":"submissionTime","type":"uint256"},
     {"name":"resolved","type":"bool"},
     {"name":"parties","type":"address[3]"},
     {"name":"numberOfRounds","type":"uint256"},
     {"name":"ruling","type":"uint8"},
     {"name":"requestArbitrator","type":"address"},
     {"name":"requestArbitratorExtraData","type":"bytes"},
     {"name":"metaEvidenceID","type":"uint256"}]},
  {"type":"function","name":"addItem","stateMutability":"payable","inputs":[{"name":"_item","type":"string"}],"outputs":[]},
  {"type":"function","name":"removeItem","stateMutability":"payable","inputs":[{"name":"_itemID","type":"bytes32"},{"name":"_evidence","type":"string"}],"outputs":[]},
  {"type":"function","name":"challengeRequest","stateMutability":"payable","inputs":[{"name":"_itemID","type":"bytes32"},{"name":"_evidence","type":"string"}],"outputs":[]}
]`

const arbitratorABIJSON = `[
  {"type":"function","name":"arbitrationCost","stateMutability":"view","inputs":[{"name":"_extraData","type":"bytes"}],"outputs":[{"name":"cost","type":"uint256"}]}
]`

var (
	registryABI   = mustParseABI(registryABIJSON)
	arbitratorABI = mustParseABI(arbitratorABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic("tcr: invalid ABI: " + err.Error())
	}
	return parsed
}
