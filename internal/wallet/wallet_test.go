package wallet

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	generated, err := Generate(1)
	require.NoError(t, err)
	encoded := generated[0].EncodedPrivateKey()

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid key", key: encoded},
		{name: "empty key", key: "", wantErr: true},
		{name: "not base58", key: "0OIl", wantErr: true},
		{name: "wrong length", key: "3yZe7d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWallet(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, generated[0].PublicKey, w.PublicKey)
		})
	}
}

func TestNewWallet_MissingKey(t *testing.T) {
	_, err := NewWallet("")
	assert.ErrorIs(t, err, ErrMissingPrivateKey)
}

func TestGenerate(t *testing.T) {
	wallets, err := Generate(3)
	require.NoError(t, err)
	require.Len(t, wallets, 3)
	assert.NotEqual(t, wallets[0].PublicKey, wallets[1].PublicKey)

	_, err = Generate(0)
	assert.Error(t, err)
}

func TestGetATA_Cached(t *testing.T) {
	wallets, err := Generate(1)
	require.NoError(t, err)
	w := wallets[0]

	mint := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	want, _, err := solana.FindAssociatedTokenAddress(w.PublicKey, mint)
	require.NoError(t, err)

	got, err := w.GetATA(mint)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ix, ata, err := w.CreateAssociatedTokenAccountIdempotentInstruction(mint)
	require.NoError(t, err)
	assert.Equal(t, want, ata)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)
}

func TestSignTransaction(t *testing.T) {
	wallets, err := Generate(1)
	require.NoError(t, err)
	w := wallets[0]

	ix := solana.NewInstruction(solana.MemoProgramID, solana.AccountMetaSlice{
		{PublicKey: w.PublicKey, IsSigner: true, IsWritable: true},
	}, []byte("hello"))
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{1}, solana.TransactionPayer(w.PublicKey))
	require.NoError(t, err)

	require.NoError(t, w.SignTransaction(tx))
	require.Len(t, tx.Signatures, 1)
	assert.NoError(t, tx.VerifySignatures())
}
