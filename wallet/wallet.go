package wallet

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Luismorlan/dept_ledger/layout"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/service"
	"github.com/jroimartin/gocui"
	"google.golang.org/grpc"
)

const rpcTimeout = 10 * time.Second

var (
	ErrNotConnected = errors.New("not connected to a full node, use connect first")
	ErrNotLoggedIn  = errors.New("not logged in, use register or login first")
)

// A department wallet talking to one full node.
type Wallet struct {
	FullNodeClient service.LedgerServiceClient
	conn           *grpc.ClientConn
	// Credentials of the logged in department.
	creds *service.Credentials
	// Console to print to, nil in debug mode.
	g *gocui.Gui
}

func NewWallet(g *gocui.Gui) *Wallet {
	return &Wallet{g: g}
}

// Log prints to the console logger, or to the standard logger in debug mode.
func (w *Wallet) Log(s string) {
	if w.g == nil {
		log.Println(s)
		return
	}
	layout.Print(w.g, layout.LoggerView, s+"\n")
}

func (w *Wallet) SetFullNodeConnection(ipAddr string, port string) error {
	var opts []grpc.DialOption
	opts = append(opts, grpc.WithInsecure())
	serverAddr := ipAddr + ":" + port
	conn, err := grpc.Dial(serverAddr, opts...)
	if err != nil {
		log.Println("failed to dial", serverAddr, err)
		return err
	}
	if w.conn != nil {
		w.conn.Close()
	}
	w.conn = conn
	w.FullNodeClient = service.NewLedgerServiceClient(conn)
	return nil
}

func (w *Wallet) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}

// Address of the logged in department, empty before login.
func (w *Wallet) Address() string {
	if w.creds == nil {
		return ""
	}
	return w.creds.Address
}

func (w *Wallet) ready(needLogin bool) error {
	if w.FullNodeClient == nil {
		return ErrNotConnected
	}
	if needLogin && w.creds == nil {
		return ErrNotLoggedIn
	}
	return nil
}

func (w *Wallet) refreshStatus() {
	if w.g != nil {
		layout.SetStatus(w.g, "logged in as "+w.Address())
	}
}

// Register creates the department wallet on the node and logs into it.
func (w *Wallet) Register(name, password string) (*service.WalletResponse, error) {
	if err := w.ready(false); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	res, err := w.FullNodeClient.CreateWallet(ctx, &service.CreateWalletRequest{Name: name, Password: password})
	if err != nil {
		return nil, err
	}
	w.creds = &service.Credentials{Address: res.Address, Password: password}
	w.refreshStatus()
	return res, nil
}

// Login checks the credentials against the node and keeps them for later calls.
func (w *Wallet) Login(address, password string) (uint64, error) {
	if err := w.ready(false); err != nil {
		return 0, err
	}
	creds := service.Credentials{Address: address, Password: password}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	res, err := w.FullNodeClient.GetBalance(ctx, &service.GetBalanceRequest{Credentials: creds})
	if err != nil {
		return 0, err
	}
	w.creds = &creds
	w.refreshStatus()
	return res.Balance, nil
}

func (w *Wallet) GetBalance() (uint64, error) {
	if err := w.ready(true); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	res, err := w.FullNodeClient.GetBalance(ctx, &service.GetBalanceRequest{Credentials: *w.creds})
	if err != nil {
		return 0, err
	}
	return res.Balance, nil
}

func (w *Wallet) TransferMoney(receiver string, amount uint64) (model.Receipt, error) {
	if err := w.ready(true); err != nil {
		return model.Receipt{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	res, err := w.FullNodeClient.Transfer(ctx, &service.TransferRequest{Credentials: *w.creds, Receiver: receiver, Amount: amount})
	if err != nil {
		return model.Receipt{}, err
	}
	return res.Receipt, nil
}

// PayVendor pays out of the department's branch.
func (w *Wallet) PayVendor(vendor string, amount uint64) (model.Receipt, error) {
	if err := w.ready(true); err != nil {
		return model.Receipt{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	res, err := w.FullNodeClient.BranchTransfer(ctx, &service.BranchTransferRequest{Credentials: *w.creds, Vendor: vendor, Amount: amount})
	if err != nil {
		return model.Receipt{}, err
	}
	return res.Receipt, nil
}

func (w *Wallet) ApplyForValidator() (model.CandidacyStatus, error) {
	if err := w.ready(true); err != nil {
		return model.CandidacyStatus{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	res, err := w.FullNodeClient.RequestValidator(ctx, &service.RequestValidatorRequest{Credentials: *w.creds})
	if err != nil {
		return model.CandidacyStatus{}, err
	}
	return res.Status, nil
}

func (w *Wallet) Vote(candidate string) (model.CandidacyStatus, error) {
	if err := w.ready(true); err != nil {
		return model.CandidacyStatus{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	res, err := w.FullNodeClient.Vote(ctx, &service.VoteRequest{Credentials: *w.creds, Candidate: candidate})
	if err != nil {
		return model.CandidacyStatus{}, err
	}
	return res.Status, nil
}

func (w *Wallet) Resign() error {
	if err := w.ready(true); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	_, err := w.FullNodeClient.Resign(ctx, &service.ResignRequest{Credentials: *w.creds})
	return err
}

func (w *Wallet) Validators() (*service.ListValidatorsResponse, error) {
	if err := w.ready(false); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	return w.FullNodeClient.ListValidators(ctx, &service.ListValidatorsRequest{})
}
