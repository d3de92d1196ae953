package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/Luismorlan/dept_ledger/journal"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWallet(t *testing.T) {
	r := NewRegistry(10000, nil)
	w, err := r.CreateWallet(" Finance ", "pw")
	require.Nil(t, err)
	assert.Equal(t, "Finance", w.Address)
	assert.True(t, w.Active)
	assert.NotEqual(t, []byte("pw"), w.Credential.Digest)

	balance, err := r.Balance("Finance")
	require.Nil(t, err)
	assert.Equal(t, uint64(10000), balance)

	_, err = r.CreateWallet("Finance", "other")
	assert.True(t, errors.Is(err, model.ErrDuplicateWalletName))
}

func TestAddressRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "   ", "a/b", "two words", "MAIN"} {
		_, err := Address(name)
		assert.Equal(t, model.KindInvalidInput, model.KindOf(err), name)
	}
	_, err := NewRegistry(1, nil).CreateWallet("Finance", "")
	assert.Equal(t, model.KindInvalidInput, model.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	r := NewRegistry(10000, nil)
	_, err := r.CreateWallet("Finance", "pw")
	require.Nil(t, err)

	w, err := r.Authenticate("Finance", "pw")
	require.Nil(t, err)
	assert.Equal(t, "Finance", w.Address)

	_, wrong := r.Authenticate("Finance", "nope")
	_, unknown := r.Authenticate("Nobody", "pw")
	assert.True(t, errors.Is(wrong, model.ErrInvalidCredential))
	assert.True(t, errors.Is(unknown, model.ErrInvalidCredential))
	assert.Equal(t, wrong.Error(), unknown.Error())
}

func TestTransfer(t *testing.T) {
	r := NewRegistry(100, nil)
	_, err := r.CreateWallet("Finance", "pw")
	require.Nil(t, err)
	_, err = r.CreateWallet("Health", "pw")
	require.Nil(t, err)

	require.Nil(t, r.Transfer("Finance", "Health", 60))
	err = r.Transfer("Finance", "Health", 60)
	assert.True(t, errors.Is(err, model.ErrInsufficientFunds))
	err = r.Transfer("Finance", "Nobody", 1)
	assert.True(t, errors.Is(err, model.ErrUnknownAddress))

	f, _ := r.Balance("Finance")
	h, _ := r.Balance("Health")
	assert.Equal(t, uint64(40), f)
	assert.Equal(t, uint64(160), h)
}

func TestSeedAccountIsIdempotent(t *testing.T) {
	r := NewRegistry(10000, nil)
	first, err := r.SeedAccount("CentralGov", "pw", 1000000)
	require.Nil(t, err)
	second, err := r.SeedAccount("CentralGov", "pw", 5)
	require.Nil(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	balance, _ := r.Balance("CentralGov")
	assert.Equal(t, uint64(1000000), balance)
}

func TestDeactivate(t *testing.T) {
	r := NewRegistry(10000, nil)
	_, err := r.CreateWallet("Finance", "pw")
	require.Nil(t, err)
	require.Nil(t, r.Deactivate("Finance"))
	assert.False(t, r.Exists("Finance"))
	_, err = r.Authenticate("Finance", "pw")
	assert.True(t, errors.Is(err, model.ErrInvalidCredential))
	assert.True(t, errors.Is(r.Deactivate("Nobody"), model.ErrUnknownAddress))
}

func TestAgeAndRestore(t *testing.T) {
	j, err := journal.NewMemLevelDB()
	require.Nil(t, err)
	defer j.Close()

	now := time.Unix(1700000000, 0)
	r := NewRegistry(10000, j)
	r.SetClock(func() time.Time { return now })
	_, err = r.CreateWallet("Finance", "pw")
	require.Nil(t, err)

	now = now.Add(31 * 24 * time.Hour)
	age, err := r.Age("Finance")
	require.Nil(t, err)
	assert.Equal(t, 31*24*time.Hour, age)

	snapshot, err := j.Load()
	require.Nil(t, err)
	restored := NewRegistry(10000, nil)
	require.Nil(t, restored.Restore(snapshot.Wallets, func(w model.WalletAccount) (uint64, error) {
		return w.OpeningBalance - 10, nil
	}))
	_, err = restored.Authenticate("Finance", "pw")
	assert.Nil(t, err)
	balance, _ := restored.Balance("Finance")
	assert.Equal(t, uint64(9990), balance)
	assert.Len(t, restored.List(), 1)
}
