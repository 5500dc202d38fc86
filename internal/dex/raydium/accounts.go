// internal/dex/raydium/accounts.go
package raydium

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	token "github.com/gagliardetto/solana-go/programs/token"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain"
	"github.com/rovshanmuradov/raydium-swap/internal/wallet"
)

// TokenAccount: токен-аккаунт владельца вместе с декодированным состоянием.
type TokenAccount struct {
	Pubkey    solana.PublicKey
	ProgramID solana.PublicKey
	Account   token.Account
}

// GetOwnerTokenAccounts перечисляет SPL токен-аккаунты владельца.
func GetOwnerTokenAccounts(ctx context.Context, client blockchain.Client, owner solana.PublicKey) ([]TokenAccount, error) {
	result, err := client.GetTokenAccountsByOwner(ctx, owner, TokenProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get token accounts for %s: %w", owner, err)
	}
	if result == nil {
		return nil, nil
	}

	accounts := make([]TokenAccount, 0, len(result.Value))
	for _, keyed := range result.Value {
		if keyed == nil || keyed.Account.Data == nil {
			continue
		}
		var state token.Account
		if err := bin.NewBinDecoder(keyed.Account.Data.GetBinary()).Decode(&state); err != nil {
			return nil, fmt.Errorf("failed to decode token account %s: %w", keyed.Pubkey, err)
		}
		accounts = append(accounts, TokenAccount{
			Pubkey:    keyed.Pubkey,
			ProgramID: keyed.Account.Owner,
			Account:   state,
		})
	}
	return accounts, nil
}

// findTokenAccount ищет аккаунт для mint, предпочитая ATA.
func findTokenAccount(accounts []TokenAccount, mint, ata solana.PublicKey) (TokenAccount, bool) {
	var fallback *TokenAccount
	for i := range accounts {
		if !accounts[i].Account.Mint.Equals(mint) {
			continue
		}
		if accounts[i].Pubkey.Equals(ata) {
			return accounts[i], true
		}
		if fallback == nil {
			fallback = &accounts[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return TokenAccount{}, false
}

func hasAccount(accounts []TokenAccount, pubkey solana.PublicKey) bool {
	for i := range accounts {
		if accounts[i].Pubkey.Equals(pubkey) {
			return true
		}
	}
	return false
}

// swapRoute: пользовательские аккаунты свапа и обвязка вокруг инструкции.
type swapRoute struct {
	source solana.PublicKey
	dest   solana.PublicKey
	pre    []solana.Instruction
	post   []solana.Instruction
}

// planRoute подбирает source/dest аккаунты. WSOL на входе оборачивается
// переводом lamports + SyncNative; аккаунт WSOL, созданный под этот свап,
// закрывается в конце, возвращая SOL владельцу.
func planRoute(owner *wallet.Wallet, q *Quote, accounts []TokenAccount) (*swapRoute, error) {
	route := &swapRoute{}

	spend := q.AmountIn
	if q.Side == FixedOut {
		spend = q.MaxAmountIn
	}
	if !spend.IsUint64() {
		return nil, fmt.Errorf("input amount %s does not fit into u64", spend)
	}

	// source
	sourceATA, err := owner.GetATA(q.InputMint)
	if err != nil {
		return nil, err
	}
	if q.InputMint.Equals(WrappedSolMint) {
		createIx, ata, err := owner.CreateAssociatedTokenAccountIdempotentInstruction(WrappedSolMint)
		if err != nil {
			return nil, err
		}
		transferIx, err := system.NewTransferInstruction(spend.Uint64(), owner.PublicKey, ata).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build wrap transfer: %w", err)
		}
		syncIx, err := token.NewSyncNativeInstruction(ata).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build sync native: %w", err)
		}
		route.pre = append(route.pre, createIx, transferIx, syncIx)
		route.source = ata

		// закрываем только ATA, созданный этим свапом; чужие WSOL-аккаунты не в счёт
		if !hasAccount(accounts, ata) {
			closeIx, err := closeAccountInstruction(ata, owner.PublicKey)
			if err != nil {
				return nil, err
			}
			route.post = append(route.post, closeIx)
		}
	} else {
		src, ok := findTokenAccount(accounts, q.InputMint, sourceATA)
		if !ok {
			return nil, fmt.Errorf("no token account found for input mint %s", q.InputMint)
		}
		if src.Account.Amount < spend.Uint64() {
			return nil, fmt.Errorf("insufficient balance in %s: have %d, need %d", src.Pubkey, src.Account.Amount, spend.Uint64())
		}
		route.source = src.Pubkey
	}

	// destination
	destATA, err := owner.GetATA(q.OutputMint)
	if err != nil {
		return nil, err
	}
	if dst, ok := findTokenAccount(accounts, q.OutputMint, destATA); ok {
		route.dest = dst.Pubkey
		return route, nil
	}

	createIx, ata, err := owner.CreateAssociatedTokenAccountIdempotentInstruction(q.OutputMint)
	if err != nil {
		return nil, err
	}
	route.pre = append(route.pre, createIx)
	route.dest = ata
	if q.OutputMint.Equals(WrappedSolMint) {
		closeIx, err := closeAccountInstruction(ata, owner.PublicKey)
		if err != nil {
			return nil, err
		}
		route.post = append(route.post, closeIx)
	}
	return route, nil
}

func closeAccountInstruction(account, owner solana.PublicKey) (solana.Instruction, error) {
	ix, err := token.NewCloseAccountInstruction(account, owner, owner, []solana.PublicKey{}).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build close account: %w", err)
	}
	return ix, nil
}
