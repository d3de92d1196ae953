// Package api serves the HTTP contract of the department dashboard.
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Luismorlan/dept_ledger/full_node"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/gorilla/mux"
)

// Backend is what the gateway needs from a ledger node.
type Backend interface {
	CreateWallet(name, password string) (full_node.Account, error)
	Login(address, password string) (full_node.Account, error)
	Transfer(sender, receiver string, amount uint64) (model.Receipt, error)
	BranchTransfer(branch, vendor string, amount uint64) (model.Receipt, error)
	RequestValidator(address string) (model.CandidacyStatus, error)
	Vote(voter, candidate string) (model.CandidacyStatus, error)
	Resign(address string) error
	Validators() ([]string, map[string][]string)
	Chains() (model.ChainView, error)
	Verify() map[model.ChainID]full_node.ChainHealth
}

// Server represents the HTTP API server
type Server struct {
	backend Backend
	port    string
	origin  string
	router  *mux.Router
	http    *http.Server
}

func NewServer(backend Backend, port, origin string) *Server {
	s := &Server{
		backend: backend,
		port:    port,
		origin:  origin,
		router:  mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(s.cors)

	r.HandleFunc("/blockchain", s.handleChain).Methods(http.MethodGet)
	r.HandleFunc("/display-chain", s.handleChain).Methods(http.MethodGet)
	r.HandleFunc("/chain-integrity", s.handleIntegrity).Methods(http.MethodGet)

	r.HandleFunc("/transaction", s.handleTransaction).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/branch-transaction", s.handleBranchTransaction).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/create-wallet/{name}/{password}", s.handleCreateWallet).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/wallet/{address}/{password}", s.handleWallet).Methods(http.MethodGet)
	r.HandleFunc("/balance/{address}/{password}", s.handleBalance).Methods(http.MethodGet)

	r.HandleFunc("/request-validator/{name}", s.handleRequestValidator).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/vote-for-validator/{voter}/{candidate}", s.handleVote).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/resign-validator/{address}/{password}", s.handleResign).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/validators", s.handleValidators).Methods(http.MethodGet)
	r.HandleFunc("/pending-requests", s.handlePending).Methods(http.MethodGet)
}

// cors lets the dashboard call the node from its own origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests and blocks until the server stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Starting HTTP API server on port %s", s.port)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
