// internal/dex/raydium/constants.go
package raydium

import (
	"github.com/gagliardetto/solana-go"
)

// Program IDs
var (
	// Используем MPK для краткости, так как это константы
	AmmV4ProgramID         = solana.MPK("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	AmmV4Authority         = solana.MPK("5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1")
	OpenBookProgramID      = solana.MPK("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	TokenProgramID         = solana.TokenProgramID
	WrappedSolMint         = solana.MPK("So11111111111111111111111111111111111111112")
	SimulationFeePayer     = solana.MPK("RaydiumSimuLateTransaction11111111111111111")
	AssociatedTokenProgram = solana.SPLAssociatedTokenAccountProgramID
)

// Layout versions
const (
	AmmLayoutVersion    = 4
	MarketLayoutVersion = 3
)

// Account sizes
const (
	AmmInfoSize     = 752
	MarketStateSize = 388
	// SPL token account: mint(32) owner(32) amount(8) ...
	TokenAccountSize = 165
)

// Offsets used by getProgramAccounts memcmp filters.
const (
	AmmBaseMintOffset  = 400
	AmmQuoteMintOffset = 432
)

// Swap fee used when the pool record carries no fee fraction.
const (
	DefaultSwapFeeNumerator   = 25
	DefaultSwapFeeDenominator = 10000
)

// BasisPointsDenominator: slippage granularity, 1 bps = 0.01%.
const BasisPointsDenominator = 10000

// AMM instruction discriminators
const (
	InstructionSwapBaseIn       uint8 = 9
	InstructionSwapBaseOut      uint8 = 11
	InstructionSimulateInfo     uint8 = 12
	SimulatePoolInfoParamType   uint8 = 0
	maxMarketAuthorityNonce           = 100
	poolDataLogPrefix                 = "GetPoolData: "
	defaultCandidateConcurrency       = 4
)
