package telos

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

type permissionLevel struct {
	Actor      string `json:"actor"`
	Permission string `json:"permission"`
}

type keyWeight struct {
	Key    string `json:"key"`
	Weight uint16 `json:"weight"`
}

type authority struct {
	Threshold uint32        `json:"threshold"`
	Keys      []keyWeight   `json:"keys"`
	Accounts  []interface{} `json:"accounts"`
	Waits     []interface{} `json:"waits"`
}

type action struct {
	Account       string            `json:"account"`
	Name          string            `json:"name"`
	Authorization []permissionLevel `json:"authorization"`
	Data          string            `json:"data"` // hex-packed action args
}

// transaction is the JSON form a wallet daemon signs. The packed binary
// form pushed to the chain is produced by pack().
type transaction struct {
	Expiration            string        `json:"expiration"`
	RefBlockNum           uint16        `json:"ref_block_num"`
	RefBlockPrefix        uint32        `json:"ref_block_prefix"`
	MaxNetUsageWords      uint32        `json:"max_net_usage_words"`
	MaxCPUUsageMS         uint8         `json:"max_cpu_usage_ms"`
	DelaySec              uint32        `json:"delay_sec"`
	ContextFreeActions    []action      `json:"context_free_actions"`
	Actions               []action      `json:"actions"`
	TransactionExtensions []interface{} `json:"transaction_extensions"`
	Signatures            []string      `json:"signatures"`
	ContextFreeData       []string      `json:"context_free_data"`
}

// CreateAccount submits a newaccount transaction for name, paying the
// RAM purchase and bandwidth stake from the creator account. The three
// actions (newaccount, buyrambytes, delegatebw) travel in one
// transaction so a new account is never left without resources.
// Returns the chain's transaction result as raw JSON. Exactly one
// attempt is made; any failure is terminal for this invocation.
func (c *Client) CreateAccount(ctx context.Context, name, ownerKey, activeKey string) (json.RawMessage, error) {
	var info struct {
		ChainID                  string `json:"chain_id"`
		LastIrreversibleBlockNum uint32 `json:"last_irreversible_block_num"`
	}
	if err := c.post(ctx, c.apiURL+"/v1/chain/get_info", map[string]string{}, &info); err != nil {
		return nil, fmt.Errorf("get_info: %w", err)
	}

	var block struct {
		BlockNum       uint32 `json:"block_num"`
		RefBlockPrefix uint32 `json:"ref_block_prefix"`
	}
	if err := c.post(ctx, c.apiURL+"/v1/chain/get_block", map[string]interface{}{
		"block_num_or_id": info.LastIrreversibleBlockNum,
	}, &block); err != nil {
		return nil, fmt.Errorf("get_block: %w", err)
	}

	auth := []permissionLevel{{Actor: c.creator, Permission: "active"}}

	newAccount, err := c.packAction(ctx, "eosio", "newaccount", map[string]interface{}{
		"creator": c.creator,
		"name":    name,
		"owner":   singleKeyAuthority(ownerKey),
		"active":  singleKeyAuthority(activeKey),
	}, auth)
	if err != nil {
		return nil, err
	}
	buyRAM, err := c.packAction(ctx, "eosio", "buyrambytes", map[string]interface{}{
		"payer":    c.creator,
		"receiver": name,
		"bytes":    c.ramBytes,
	}, auth)
	if err != nil {
		return nil, err
	}
	delegateBW, err := c.packAction(ctx, "eosio", "delegatebw", map[string]interface{}{
		"from":               c.creator,
		"receiver":           name,
		"stake_net_quantity": c.netStake,
		"stake_cpu_quantity": c.cpuStake,
		"transfer":           true,
	}, auth)
	if err != nil {
		return nil, err
	}

	expiration := time.Now().UTC().Add(2 * time.Minute)
	tx := &transaction{
		Expiration:            expiration.Format("2006-01-02T15:04:05"),
		RefBlockNum:           uint16(block.BlockNum & 0xffff),
		RefBlockPrefix:        block.RefBlockPrefix,
		ContextFreeActions:    []action{},
		Actions:               []action{newAccount, buyRAM, delegateBW},
		TransactionExtensions: []interface{}{},
		Signatures:            []string{},
		ContextFreeData:       []string{},
	}

	var signed transaction
	signReq := []interface{}{tx, []string{c.creatorKey}, info.ChainID}
	if err := c.post(ctx, c.walletURL+"/v1/wallet/sign_transaction", signReq, &signed); err != nil {
		return nil, fmt.Errorf("sign_transaction: %w", err)
	}

	packed, err := tx.pack(expiration)
	if err != nil {
		return nil, fmt.Errorf("pack transaction: %w", err)
	}

	var result json.RawMessage
	if err := c.post(ctx, c.apiURL+"/v1/chain/push_transaction", map[string]interface{}{
		"signatures":               signed.Signatures,
		"compression":              "none",
		"packed_context_free_data": "",
		"packed_trx":               hex.EncodeToString(packed),
	}, &result); err != nil {
		return nil, fmt.Errorf("push_transaction: %w", err)
	}
	return result, nil
}

// packAction serializes action args through the chain's abi_json_to_bin
// endpoint, so this process needs no local copy of the system ABI.
func (c *Client) packAction(ctx context.Context, code, name string, args interface{}, auth []permissionLevel) (action, error) {
	var out struct {
		Binargs string `json:"binargs"`
	}
	if err := c.post(ctx, c.apiURL+"/v1/chain/abi_json_to_bin", map[string]interface{}{
		"code":   code,
		"action": name,
		"args":   args,
	}, &out); err != nil {
		return action{}, fmt.Errorf("abi_json_to_bin %s::%s: %w", code, name, err)
	}
	return action{Account: code, Name: name, Authorization: auth, Data: out.Binargs}, nil
}

func singleKeyAuthority(key string) authority {
	return authority{
		Threshold: 1,
		Keys:      []keyWeight{{Key: key, Weight: 1}},
		Accounts:  []interface{}{},
		Waits:     []interface{}{},
	}
}

// pack serializes the transaction into the chain's binary wire format.
func (t *transaction) pack(expiration time.Time) ([]byte, error) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(expiration.Unix()))
	binary.Write(buf, binary.LittleEndian, t.RefBlockNum)
	binary.Write(buf, binary.LittleEndian, t.RefBlockPrefix)
	writeVaruint32(buf, uint32(t.MaxNetUsageWords))
	buf.WriteByte(t.MaxCPUUsageMS)
	writeVaruint32(buf, t.DelaySec)

	writeVaruint32(buf, uint32(len(t.ContextFreeActions)))
	for _, a := range t.ContextFreeActions {
		if err := packActionBinary(buf, a); err != nil {
			return nil, err
		}
	}
	writeVaruint32(buf, uint32(len(t.Actions)))
	for _, a := range t.Actions {
		if err := packActionBinary(buf, a); err != nil {
			return nil, err
		}
	}
	writeVaruint32(buf, 0) // transaction_extensions
	return buf.Bytes(), nil
}

func packActionBinary(buf *bytes.Buffer, a action) error {
	binary.Write(buf, binary.LittleEndian, nameToUint64(a.Account))
	binary.Write(buf, binary.LittleEndian, nameToUint64(a.Name))
	writeVaruint32(buf, uint32(len(a.Authorization)))
	for _, p := range a.Authorization {
		binary.Write(buf, binary.LittleEndian, nameToUint64(p.Actor))
		binary.Write(buf, binary.LittleEndian, nameToUint64(p.Permission))
	}
	data, err := hex.DecodeString(a.Data)
	if err != nil {
		return fmt.Errorf("action %s::%s data is not hex: %w", a.Account, a.Name, err)
	}
	writeVaruint32(buf, uint32(len(data)))
	buf.Write(data)
	return nil
}

func writeVaruint32(buf *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}
