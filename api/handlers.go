package api

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"sort"

	"github.com/Luismorlan/dept_ledger/full_node"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/gorilla/mux"
)

type walletResponse struct {
	Status  int    `json:"status"`
	Address string `json:"address"`
	// The credential the caller just authenticated with. Nothing stored is ever echoed.
	Password    string `json:"password"`
	Department  string `json:"department"`
	Balance     uint64 `json:"balance"`
	IsValidator *bool  `json:"is_validator,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type receiptResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	model.Receipt
}

type candidacyResponse struct {
	Status    int                  `json:"status"`
	Voter     string               `json:"voter,omitempty"`
	Candidate string               `json:"candidate"`
	State     model.CandidateState `json:"state"`
	Votes     []string             `json:"votes"`
	Threshold int                  `json:"threshold"`
	Unmet     []string             `json:"unmet,omitempty"`
	Message   string               `json:"message"`
}

type validatorsResponse struct {
	Validators      []string            `json:"validators"`
	PendingRequests map[string][]string `json:"pending_requests"`
	CandidateVotes  map[string][]string `json:"candidateVotes"`
}

type chainHealth struct {
	Height int    `json:"height"`
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
}

func newWalletResponse(a full_node.Account, password string) walletResponse {
	return walletResponse{
		Status:     http.StatusOK,
		Address:    a.Wallet.Address,
		Password:   password,
		Department: a.Wallet.DisplayName,
		Balance:    a.Balance,
		CreatedAt:  a.Wallet.CreatedAt.Unix(),
	}
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	view, err := s.backend.Chains()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	chains := make(map[model.ChainID]chainHealth)
	for id, h := range s.backend.Verify() {
		c := chainHealth{Height: h.Height, Valid: h.Err == nil}
		if h.Err != nil {
			c.Error = h.Err.Error()
		}
		chains[id] = c
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chains": chains})
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		writeError(w, model.Errorf(model.KindInvalidInput, "cannot read body: %v", err))
		return
	}
	var req transactionRequest
	if err := decode(body, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := requireAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	receipt, err := s.backend.Transfer(req.Sender, req.Receiver, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receiptResponse{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("%s sent %d to %s", req.Sender, amount, req.Receiver),
		Receipt: receipt,
	})
}

func (s *Server) handleBranchTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		writeError(w, model.Errorf(model.KindInvalidInput, "cannot read body: %v", err))
		return
	}
	var req branchTransactionRequest
	if err := decode(body, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := requireAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	receipt, err := s.backend.BranchTransfer(req.Branch, req.Vendor, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receiptResponse{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("%s paid %d to vendor %s", req.Branch, amount, req.Vendor),
		Receipt: receipt,
	})
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := s.backend.CreateWallet(vars["name"], vars["password"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newWalletResponse(a, vars["password"]))
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := s.backend.Login(vars["address"], vars["password"])
	if err != nil {
		writeError(w, err)
		return
	}
	resp := newWalletResponse(a, vars["password"])
	resp.IsValidator = &a.IsValidator
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := s.backend.Login(vars["address"], vars["password"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"balance": a.Balance})
}

func candidacyMessage(c model.CandidacyStatus) string {
	switch {
	case c.State == model.Active:
		return fmt.Sprintf("%s is a validator", c.Candidate)
	case len(c.Unmet) > 0:
		return fmt.Sprintf("%s reached %d votes but is no longer eligible", c.Candidate, len(c.Votes))
	default:
		return fmt.Sprintf("%s is pending with %d of %d votes", c.Candidate, len(c.Votes), c.Threshold)
	}
}

func newCandidacyResponse(c model.CandidacyStatus) candidacyResponse {
	return candidacyResponse{
		Status:    http.StatusOK,
		Candidate: c.Candidate,
		State:     c.State,
		Votes:     c.Votes,
		Threshold: c.Threshold,
		Unmet:     c.Unmet,
		Message:   candidacyMessage(c),
	}
}

func (s *Server) handleRequestValidator(w http.ResponseWriter, r *http.Request) {
	c, err := s.backend.RequestValidator(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCandidacyResponse(c))
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, err := s.backend.Vote(vars["voter"], vars["candidate"])
	if err != nil {
		writeError(w, err)
		return
	}
	resp := newCandidacyResponse(c)
	resp.Voter = vars["voter"]
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, err := s.backend.Login(vars["address"], vars["password"]); err != nil {
		writeError(w, err)
		return
	}
	if err := s.backend.Resign(vars["address"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"address": vars["address"],
		"message": vars["address"] + " is no longer a validator",
	})
}

func (s *Server) handleValidators(w http.ResponseWriter, r *http.Request) {
	active, pending := s.backend.Validators()
	writeJSON(w, http.StatusOK, validatorsResponse{
		Validators:      active,
		PendingRequests: pending,
		CandidateVotes:  pending,
	})
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	_, pending := s.backend.Validators()
	candidates := make([]string, 0, len(pending))
	for c := range pending {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)
	writeJSON(w, http.StatusOK, map[string]interface{}{"pending_requests": candidates})
}
