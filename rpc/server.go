package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/vaultnft/nft"
	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ErrUnknownMethod = errors.New("rpc: unknown method")
	ErrInvalidArgs   = errors.New("rpc: invalid arguments")
)

type callRequest struct {
	CallId      string          `json:"call_id"`
	Predecessor string          `json:"predecessor"`
	Deposit     string          `json:"deposit"`
	Gas         uint64          `json:"gas"`
	Args        json.RawMessage `json:"args"`
}

type callResponse struct {
	Result interface{} `json:"result"`
	Logs   []string    `json:"logs"`
}

// Server is meant to sit behind the platform gateway, which authenticates
// callers and fills in predecessor and deposit. It must not be exposed
// publicly.
type Server struct {
	contract *nft.Contract
}

func NewServer(contract *nft.Contract) http.Handler {
	s := &Server{contract: contract}
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/call/{method}", s.handleCall)
	r.Get("/view/{method}", s.handleView)
	return r
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidArgs, err))
		return
	}
	call, err := req.call()
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	method := chi.URLParam(r, "method")
	result, err := s.dispatchCall(call, method, req.Args)
	if err != nil {
		logger.Verbosef("rpc.call(%s, %s, %s) => %v\n", call.Id, call.Predecessor, method, err)
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, callResponse{Result: result, Logs: call.Logs()})
}

func (req *callRequest) call() (*nft.Call, error) {
	id := req.CallId
	if id == "" {
		id = uuid.Must(uuid.NewV4()).String()
	} else if _, err := uuid.FromString(id); err != nil {
		return nil, fmt.Errorf("%w: call id %s", ErrInvalidArgs, id)
	}
	if err := nft.ValidateAccountId(req.Predecessor); err != nil {
		return nil, err
	}
	deposit := new(uint256.Int)
	if req.Deposit != "" {
		d, err := nft.ParseAmount(req.Deposit)
		if err != nil {
			return nil, err
		}
		deposit = d
	}
	return &nft.Call{
		Id:          id,
		Predecessor: req.Predecessor,
		Deposit:     deposit,
		Gas:         req.Gas,
	}, nil
}

func (s *Server) dispatchCall(call *nft.Call, method string, raw json.RawMessage) (interface{}, error) {
	var args struct {
		TokenId      string             `json:"token_id"`
		TokenOwnerId string             `json:"token_owner_id"`
		Metadata     *nft.TokenMetadata `json:"metadata"`
		AccountId    string             `json:"account_id"`
		ReceiverId   string             `json:"receiver_id"`
		ApprovalId   *uint64            `json:"approval_id"`
		Memo         string             `json:"memo"`
		Msg          *string            `json:"msg"`
		SenderId     string             `json:"sender_id"`
		Amount       string             `json:"amount"`
		Balance      string             `json:"balance"`
	}
	if len(raw) > 0 {
		err := json.Unmarshal(raw, &args)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
	}
	msg := ""
	if args.Msg != nil {
		msg = *args.Msg
	}

	switch method {
	case "mint":
		return s.contract.Mint(call, args.TokenId, args.TokenOwnerId, args.Metadata)
	case "burn":
		return nil, s.contract.Burn(call, args.TokenId)
	case "withdraw":
		return nil, s.contract.Withdraw(call)
	case "storage_deposit":
		return nil, s.contract.StorageDeposit(call, args.AccountId)
	case "ft_on_transfer":
		amount, err := nft.ParseAmount(args.Amount)
		if err != nil {
			return nil, err
		}
		unused, err := s.contract.FtOnTransfer(call, args.SenderId, amount, msg)
		if err != nil {
			return nil, err
		}
		return unused.Dec(), nil
	case "nft_transfer":
		return nil, s.contract.NftTransfer(call, args.ReceiverId, args.TokenId, args.ApprovalId, args.Memo)
	case "nft_transfer_call":
		return nil, s.contract.NftTransferCall(call, args.ReceiverId, args.TokenId, args.ApprovalId, args.Memo, msg)
	case "nft_transfer_payout":
		var balance *uint256.Int
		if args.Balance != "" {
			b, err := nft.ParseAmount(args.Balance)
			if err != nil {
				return nil, err
			}
			balance = b
		}
		return s.contract.NftTransferPayout(call, args.ReceiverId, args.TokenId, args.ApprovalId, balance)
	case "nft_approve":
		return s.contract.NftApprove(call, args.TokenId, args.AccountId, args.Msg)
	case "nft_revoke":
		return nil, s.contract.NftRevoke(call, args.TokenId, args.AccountId)
	case "nft_revoke_all":
		return nil, s.contract.NftRevokeAll(call, args.TokenId)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	result, err := s.dispatchView(method, r)
	if errors.Is(err, ErrUnknownMethod) {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, callResponse{Result: result, Logs: []string{}})
}

func (s *Server) dispatchView(method string, r *http.Request) (interface{}, error) {
	q := r.URL.Query()
	account := q.Get("account_id")
	fromIndex, err := parseUint(q.Get("from_index"))
	if err != nil {
		return nil, err
	}
	var limit *uint64
	if l := q.Get("limit"); l != "" {
		n, err := parseUint(l)
		if err != nil {
			return nil, err
		}
		limit = &n
	}

	switch method {
	case "nft_token":
		return s.contract.NftToken(q.Get("token_id"))
	case "nft_tokens":
		return s.contract.NftTokens(fromIndex, limit)
	case "nft_tokens_for_owner":
		return s.contract.NftTokensForOwner(account, fromIndex, limit)
	case "nft_supply_for_owner":
		return s.contract.NftSupplyForOwner(account)
	case "nft_total_supply":
		return s.contract.NftTotalSupply()
	case "nft_metadata":
		return s.contract.NftMetadata(), nil
	case "nft_is_approved":
		var approvalId *uint64
		if a := q.Get("approval_id"); a != "" {
			n, err := parseUint(a)
			if err != nil {
				return nil, err
			}
			approvalId = &n
		}
		return s.contract.NftIsApproved(q.Get("token_id"), q.Get("approved_account_id"), approvalId)
	case "storage_balance_of":
		return amount(s.contract.StorageBalanceOf(account))
	case "ft_deposits_of":
		return amount(s.contract.FtDepositsOf(account))
	case "balance_of":
		return amount(s.contract.BalanceOf(account))
	case "index":
		return amount(s.contract.Index())
	case "total_supply":
		return s.contract.TotalSupply().Dec(), nil
	case "total_holders":
		return s.contract.TotalHolders()
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}

func amount(v *uint256.Int, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return v.Dec(), nil
}

func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidArgs, s)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
