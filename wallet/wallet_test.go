package wallet

import (
	"context"
	"net"
	"testing"

	"github.com/Luismorlan/dept_ledger/config"
	"github.com/Luismorlan/dept_ledger/full_node"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func GetTestWallet(t *testing.T) (*Wallet, func()) {
	node, err := full_node.NewFullNode(config.Default(), nil)
	require.Nil(t, err)

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	service.RegisterLedgerServiceServer(s, full_node.NewFullNodeServer(node))
	go s.Serve(lis)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithInsecure())
	require.Nil(t, err)

	w := NewWallet(nil)
	w.conn = conn
	w.FullNodeClient = service.NewLedgerServiceClient(conn)
	return w, func() {
		w.Close()
		s.Stop()
	}
}

func TestWalletNeedsConnectionAndLogin(t *testing.T) {
	w := NewWallet(nil)
	_, err := w.GetBalance()
	assert.Equal(t, ErrNotConnected, err)

	w, stop := GetTestWallet(t)
	defer stop()
	_, err = w.TransferMoney("Health", 1)
	assert.Equal(t, ErrNotLoggedIn, err)
	assert.Equal(t, "", w.Address())
}

func TestRegisterAndTransfer(t *testing.T) {
	w, stop := GetTestWallet(t)
	defer stop()

	res, err := w.Register("Health", "pw")
	require.Nil(t, err)
	assert.Equal(t, uint64(10000), res.Balance)

	balance, err := w.Login("CentralGov", "CentralGov")
	require.Nil(t, err)
	assert.Equal(t, uint64(1000000), balance)

	receipt, err := w.TransferMoney("Health", 2500)
	require.Nil(t, err)
	assert.Equal(t, model.MainChain, receipt.Chain)

	receipt, err = w.PayVendor("Health", 100)
	require.Nil(t, err)
	assert.Equal(t, model.BranchOf("CentralGov"), receipt.Chain)

	balance, err = w.GetBalance()
	require.Nil(t, err)
	assert.Equal(t, uint64(1000000-2600), balance)

	_, err = w.Login("Health", "wrong")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "CentralGov", w.Address())
}

func TestValidatorCommands(t *testing.T) {
	w, stop := GetTestWallet(t)
	defer stop()

	_, err := w.Register("Health", "pw")
	require.Nil(t, err)
	_, err = w.ApplyForValidator()
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	_, err = w.Vote("CentralGov")
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, codes.PermissionDenied, status.Code(w.Resign()))

	validators, err := w.Validators()
	require.Nil(t, err)
	assert.Equal(t, []string{"CentralGov"}, validators.Validators)

	_, err = w.Login("CentralGov", "CentralGov")
	require.Nil(t, err)
	assert.Nil(t, w.Resign())
}
