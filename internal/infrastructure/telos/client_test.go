package telos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(apiURL, walletURL string) *Client {
	return &Client{
		apiURL:     apiURL,
		walletURL:  walletURL,
		creator:    "freeacctcrtr",
		creatorKey: "EOS5test",
		ramBytes:   4096,
		netStake:   "0.1000 TLOS",
		cpuStake:   "0.9000 TLOS",
		http:       &http.Client{Timeout: 5 * time.Second},
	}
}

func TestAccountExists_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chain/get_account", r.URL.Path)
		_, _ = w.Write([]byte(`{"account_name":"newuser1"}`))
	}))
	defer srv.Close()

	exists, err := testClient(srv.URL, srv.URL).AccountExists(context.Background(), "newuser1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountExists_UnknownKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":500,"error":{"what":"unknown key (eosio::chain::name): newuser1"}}`))
	}))
	defer srv.Close()

	exists, err := testClient(srv.URL, srv.URL).AccountExists(context.Background(), "newuser1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAccountExists_ChainFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"what":"node is syncing"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, srv.URL).AccountExists(context.Background(), "newuser1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node is syncing")
}

// fakeChain serves the minimal chain + wallet API surface CreateAccount touches.
func fakeChain(t *testing.T, pushStatus int, pushBody string) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/v1/chain/get_info":
			_, _ = w.Write([]byte(`{"chain_id":"4667b205c6838ef70ff7988f6e8257e8be0e1284a2f59699054a018f743b1d11","last_irreversible_block_num":1000}`))
		case "/v1/chain/get_block":
			_, _ = w.Write([]byte(`{"block_num":1000,"ref_block_prefix":3832731038}`))
		case "/v1/chain/abi_json_to_bin":
			_, _ = w.Write([]byte(`{"binargs":"00aeaa4ac15cfd4500"}`))
		case "/v1/wallet/sign_transaction":
			var req []json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req, 3)
			_, _ = w.Write([]byte(`{"signatures":["SIG_K1_testsignature"],"actions":[]}`))
		case "/v1/chain/push_transaction":
			w.WriteHeader(pushStatus)
			_, _ = w.Write([]byte(pushBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	return srv, &paths
}

func TestCreateAccount_HappyPath(t *testing.T) {
	srv, paths := fakeChain(t, http.StatusOK, `{"transaction_id":"abc123","processed":{"receipt":{"status":"executed"}}}`)
	defer srv.Close()

	result, err := testClient(srv.URL, srv.URL).CreateAccount(context.Background(), "newuser1", "EOS5owner", "EOS5active")
	require.NoError(t, err)
	assert.Contains(t, string(result), "abc123")

	// newaccount, buyrambytes and delegatebw are each packed once.
	packs := 0
	for _, p := range *paths {
		if p == "/v1/chain/abi_json_to_bin" {
			packs++
		}
	}
	assert.Equal(t, 3, packs)
	assert.Equal(t, "/v1/chain/push_transaction", (*paths)[len(*paths)-1])
}

func TestCreateAccount_PushRejected(t *testing.T) {
	srv, _ := fakeChain(t, http.StatusInternalServerError,
		`{"code":500,"error":{"what":"transaction exceeded resources","details":[{"message":"account freeacctcrtr has insufficient ram"}]}}`)
	defer srv.Close()

	_, err := testClient(srv.URL, srv.URL).CreateAccount(context.Background(), "newuser1", "EOS5owner", "EOS5active")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient ram")
}
