package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Luismorlan/dept_ledger/config"
	"github.com/Luismorlan/dept_ledger/full_node"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	node    *full_node.FullNode
	handler http.Handler
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{now: time.Unix(1700000000, 0)}
	node, err := full_node.NewFullNode(config.Default(), nil)
	require.Nil(t, err)
	node.SetClock(func() time.Time { return env.now })
	env.node = node
	env.handler = NewServer(node, "0", "*").Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (e *testEnv) createWallet(t *testing.T, name string) {
	code, out := e.do(t, http.MethodPost, "/create-wallet/"+name+"/pw", "")
	require.Equal(t, http.StatusOK, code, out)
}

func TestCreateWallet(t *testing.T) {
	e := newTestEnv(t)
	code, out := e.do(t, http.MethodPost, "/create-wallet/Finance/secret", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(200), out["status"])
	assert.Equal(t, "Finance", out["address"])
	assert.Equal(t, "secret", out["password"])
	assert.Equal(t, "Finance", out["department"])
	assert.Equal(t, float64(10000), out["balance"])
	assert.Equal(t, float64(1700000000), out["created_at"])

	code, out = e.do(t, http.MethodPost, "/create-wallet/Finance/other", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, float64(409), out["status"])
	assert.Equal(t, string(model.KindDuplicateWalletName), out["kind"])
	assert.NotEmpty(t, out["message"])
}

func TestWalletAndBalance(t *testing.T) {
	e := newTestEnv(t)
	e.createWallet(t, "Finance")

	code, out := e.do(t, http.MethodGet, "/wallet/Finance/pw", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pw", out["password"])
	assert.Equal(t, false, out["is_validator"])

	code, out = e.do(t, http.MethodGet, "/wallet/CentralGov/CentralGov", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["is_validator"])
	assert.Equal(t, float64(1000000), out["balance"])

	code, out = e.do(t, http.MethodGet, "/balance/Finance/pw", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"balance": float64(10000)}, out)

	wrongCode, wrong := e.do(t, http.MethodGet, "/balance/Finance/nope", "")
	unknownCode, unknown := e.do(t, http.MethodGet, "/wallet/Nobody/pw", "")
	assert.Equal(t, http.StatusUnauthorized, wrongCode)
	assert.Equal(t, http.StatusUnauthorized, unknownCode)
	assert.Equal(t, wrong["message"], unknown["message"])
}

func TestTransaction(t *testing.T) {
	e := newTestEnv(t)
	e.createWallet(t, "Finance")
	e.createWallet(t, "Health")

	code, out := e.do(t, http.MethodPost, "/transaction", `{"sender":"Finance","receiver":"Health","amount":2500}`)
	require.Equal(t, http.StatusOK, code, out)
	assert.NotEmpty(t, out["tx_id"])
	assert.Equal(t, float64(1), out["block_index"])
	assert.Equal(t, "MAIN", out["chain"])
	assert.Len(t, out["blocks"], 3)

	code, out = e.do(t, http.MethodPost, "/transaction", `{"sender":"Health","receiver":"Finance","amount":"500"}`)
	require.Equal(t, http.StatusOK, code, out)

	_, out = e.do(t, http.MethodGet, "/balance/Finance/pw", "")
	assert.Equal(t, float64(8000), out["balance"])
	_, out = e.do(t, http.MethodGet, "/balance/Health/pw", "")
	assert.Equal(t, float64(12000), out["balance"])

	code, out = e.do(t, http.MethodPost, "/transaction", `{"sender":"Finance","receiver":"Health","amount":10000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, string(model.KindInsufficientFunds), out["kind"])
	_, out = e.do(t, http.MethodGet, "/balance/Finance/pw", "")
	assert.Equal(t, float64(8000), out["balance"])
}

func TestTransactionRejectsBadInput(t *testing.T) {
	e := newTestEnv(t)
	e.createWallet(t, "Finance")
	e.createWallet(t, "Health")

	cases := []struct {
		body string
		code int
		kind model.Kind
	}{
		{`{"sender":"Finance","receiver":"Health","amount":"abc"}`, http.StatusBadRequest, model.KindInvalidAmount},
		{`{"sender":"Finance","receiver":"Health","amount":-5}`, http.StatusBadRequest, model.KindInvalidAmount},
		{`{"sender":"Finance","receiver":"Health","amount":0}`, http.StatusBadRequest, model.KindInvalidAmount},
		{`{"sender":"Finance","receiver":"Health","amount":2.5}`, http.StatusBadRequest, model.KindInvalidAmount},
		{`{"sender":"Finance","receiver":"Health"}`, http.StatusBadRequest, model.KindInvalidAmount},
		{`{"sender":"Finance","receiver":"Finance","amount":5}`, http.StatusBadRequest, model.KindSelfTransfer},
		{`{"sender":"Nobody","receiver":"Health","amount":5}`, http.StatusNotFound, model.KindUnknownAddress},
		{`not json`, http.StatusBadRequest, model.KindInvalidInput},
	}
	for _, c := range cases {
		code, out := e.do(t, http.MethodPost, "/transaction", c.body)
		assert.Equal(t, c.code, code, c.body)
		assert.Equal(t, string(c.kind), out["kind"], c.body)
		assert.NotEmpty(t, out["message"], c.body)
	}

	_, out := e.do(t, http.MethodGet, "/blockchain", "")
	assert.Len(t, out["main_chain"], 1)
	assert.Empty(t, out["branches"])
}

func TestBranchTransaction(t *testing.T) {
	e := newTestEnv(t)
	e.createWallet(t, "Finance")
	e.createWallet(t, "Vendor")

	code, out := e.do(t, http.MethodPost, "/branch-transaction", `{"branch":"Finance","vendor":"Vendor","amount":100}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, string(model.KindNotValidator), out["kind"])

	code, out = e.do(t, http.MethodPost, "/branch-transaction", `{"branch":"CentralGov","vendor":"Vendor","amount":"100"}`)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "CentralGov", out["chain"])

	_, out = e.do(t, http.MethodGet, "/display-chain", "")
	branches := out["branches"].(map[string]interface{})
	assert.Len(t, branches["CentralGov"], 2)
	assert.Len(t, branches["Vendor"], 2)
	assert.Len(t, out["main_chain"], 1)
}

func TestBlockchainShape(t *testing.T) {
	e := newTestEnv(t)
	e.createWallet(t, "Finance")
	e.createWallet(t, "Health")
	code, _ := e.do(t, http.MethodPost, "/transaction", `{"sender":"Finance","receiver":"Health","amount":10}`)
	require.Equal(t, http.StatusOK, code)

	_, out := e.do(t, http.MethodGet, "/blockchain", "")
	main := out["main_chain"].([]interface{})
	require.Len(t, main, 2)
	genesis := main[0].(map[string]interface{})
	assert.Equal(t, float64(0), genesis["index"])
	assert.Equal(t, "0", genesis["previous_hash"])
	block := main[1].(map[string]interface{})
	for _, field := range []string{"index", "timestamp", "hash", "previous_hash", "transactions"} {
		assert.Contains(t, block, field)
	}
	tx := block["transactions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Finance", tx["sender"])
	assert.Equal(t, "Health", tx["receiver"])
	assert.Equal(t, float64(10), tx["amount"])

	branches := out["branches"].(map[string]interface{})
	assert.Len(t, branches, 2)
}

func TestValidatorLifecycle(t *testing.T) {
	e := newTestEnv(t)
	voters := []string{"Health", "Transport", "Energy", "Education", "Defense"}
	e.createWallet(t, "Finance")
	for _, v := range voters {
		e.createWallet(t, v)
	}

	code, out := e.do(t, http.MethodPost, "/request-validator/Finance", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, string(model.KindIneligibleCandidate), out["kind"])
	assert.Len(t, out["unmet"], 3)

	// CentralGov funds Finance five times, then a month passes.
	for i := 0; i < 5; i++ {
		code, _ = e.do(t, http.MethodPost, "/transaction", `{"sender":"CentralGov","receiver":"Finance","amount":25000}`)
		require.Equal(t, http.StatusOK, code)
	}
	e.now = e.now.Add(31 * 24 * time.Hour)

	code, out = e.do(t, http.MethodPost, "/request-validator/Finance", "")
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, "Pending", out["state"])
	assert.Equal(t, float64(5), out["threshold"])
	assert.NotEmpty(t, out["message"])

	for i, v := range voters {
		code, out = e.do(t, http.MethodPost, "/vote-for-validator/"+v+"/Finance", "")
		require.Equal(t, http.StatusOK, code, out)
		assert.Equal(t, v, out["voter"])
		assert.Len(t, out["votes"], i+1)
	}
	assert.Equal(t, "Active", out["state"])

	code, out = e.do(t, http.MethodPost, "/vote-for-validator/Health/Finance", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, string(model.KindUnknownCandidate), out["kind"])

	_, out = e.do(t, http.MethodGet, "/validators", "")
	assert.ElementsMatch(t, []interface{}{"CentralGov", "Finance"}, out["validators"])
	assert.Empty(t, out["pending_requests"])
	assert.Contains(t, out, "candidateVotes")

	code, out = e.do(t, http.MethodPost, "/resign-validator/Finance/pw", "")
	require.Equal(t, http.StatusOK, code, out)
	code, out = e.do(t, http.MethodPost, "/resign-validator/Finance/pw", "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, string(model.KindNotValidator), out["kind"])
}

func TestVoteErrors(t *testing.T) {
	e := newTestEnv(t)
	e.createWallet(t, "Finance")

	code, out := e.do(t, http.MethodPost, "/vote-for-validator/Finance/Finance", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(model.KindSelfVote), out["kind"])

	code, out = e.do(t, http.MethodPost, "/vote-for-validator/Nobody/Finance", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, string(model.KindUnknownAddress), out["kind"])

	code, _ = e.do(t, http.MethodPost, "/vote-for-validator/Finance/CentralGov", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPendingRequests(t *testing.T) {
	e := newTestEnv(t)
	e.now = e.now.Add(31 * 24 * time.Hour)
	e.createWallet(t, "Finance")
	for i := 0; i < 5; i++ {
		code, _ := e.do(t, http.MethodPost, "/transaction", `{"sender":"Finance","receiver":"CentralGov","amount":1}`)
		require.Equal(t, http.StatusOK, code)
	}
	// CentralGov is already active, asking again is a no-op.
	code, out := e.do(t, http.MethodPost, "/request-validator/CentralGov", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Active", out["state"])

	_, out = e.do(t, http.MethodGet, "/pending-requests", "")
	assert.Empty(t, out["pending_requests"])
}

func TestChainIntegrity(t *testing.T) {
	e := newTestEnv(t)
	code, out := e.do(t, http.MethodGet, "/chain-integrity", "")
	require.Equal(t, http.StatusOK, code)
	chains := out["chains"].(map[string]interface{})
	main := chains["MAIN"].(map[string]interface{})
	assert.Equal(t, true, main["valid"])
	assert.Equal(t, float64(1), main["height"])
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/transaction", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	code, _ := e.do(t, http.MethodGet, "/validators", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestAmountCoercion(t *testing.T) {
	for text, expected := range map[string]uint64{`2500`: 2500, `"2500"`: 2500, `" 7 "`: 7, `2.5e3`: 2500, `100.0`: 100} {
		var a Amount
		require.Nil(t, a.UnmarshalJSON([]byte(text)), text)
		assert.Equal(t, Amount(expected), a, text)
	}
	for _, text := range []string{`"x"`, `-1`, `0`, `"0"`, `1.5`, `true`, `null`, `{}`} {
		var a Amount
		err := a.UnmarshalJSON([]byte(text))
		assert.Equal(t, model.KindInvalidAmount, model.KindOf(err), text)
	}
}
