// internal/wallet/wallet.go
package wallet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ErrMissingPrivateKey возвращается, когда приватный ключ не задан.
var ErrMissingPrivateKey = errors.New("private key is not defined")

// Wallet представляет кошелёк Solana.
type Wallet struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey

	mu       sync.Mutex
	ataCache map[solana.PublicKey]solana.PublicKey // Кеш ассоциированных токен-аккаунтов (ATA) по mint
}

// NewWallet создаёт новый кошелёк из base58-encoded приватного ключа.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	if privateKeyBase58 == "" {
		return nil, ErrMissingPrivateKey
	}
	privateKeyBytes, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	return fromPrivateKey(solana.PrivateKey(privateKeyBytes)), nil
}

func fromPrivateKey(key solana.PrivateKey) *Wallet {
	return &Wallet{
		PrivateKey: key,
		PublicKey:  key.PublicKey(),
		ataCache:   make(map[solana.PublicKey]solana.PublicKey),
	}
}

// Generate создаёт n новых случайных кошельков.
func Generate(n int) ([]*Wallet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("wallet count must be positive, got %d", n)
	}
	wallets := make([]*Wallet, 0, n)
	for i := 0; i < n; i++ {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key pair: %w", err)
		}
		wallets = append(wallets, fromPrivateKey(key))
	}
	return wallets, nil
}

// EncodedPrivateKey возвращает приватный ключ в base58.
func (w *Wallet) EncodedPrivateKey() string {
	return base58.Encode(w.PrivateKey)
}

// SignTransaction подписывает транзакцию с помощью приватного ключа кошелька.
// Вызывать только после того, как инструкции и blockhash окончательно заданы.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey) {
			return &w.PrivateKey
		}
		return nil
	})
	return err
}

// GetATA возвращает адрес ассоциированного токен-аккаунта (ATA) для заданного токена (mint).
// Если адрес уже был вычислен ранее, возвращается значение из кеша.
func (w *Wallet) GetATA(mint solana.PublicKey) (solana.PublicKey, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ataCache == nil {
		w.ataCache = make(map[solana.PublicKey]solana.PublicKey)
	}
	if ata, ok := w.ataCache[mint]; ok {
		return ata, nil
	}
	ata, _, err := solana.FindAssociatedTokenAddress(w.PublicKey, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	w.ataCache[mint] = ata
	return ata, nil
}

// CreateAssociatedTokenAccountIdempotentInstruction создаёт ATA владельца кошелька,
// если его ещё нет; payer: сам кошелёк.
func (w *Wallet) CreateAssociatedTokenAccountIdempotentInstruction(mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	ata, err := w.GetATA(mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	ix := solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		solana.AccountMetaSlice{
			{PublicKey: w.PublicKey, IsWritable: true, IsSigner: true},
			{PublicKey: ata, IsWritable: true, IsSigner: false},
			{PublicKey: w.PublicKey, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		},
		[]byte{1}, // CreateIdempotent
	)
	return ix, ata, nil
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	return w.PublicKey.String()
}
