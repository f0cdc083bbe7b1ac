package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"commerceledger/core/ledger"
	"commerceledger/core/types"
	"commerceledger/native/commerce"
)

type accountMetaRequest struct {
	Address  string `json:"address"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

type submitInstructionRequest struct {
	// Payload is the hex-encoded instruction payload, discriminator first.
	Payload  string               `json:"payload"`
	Accounts []accountMetaRequest `json:"accounts"`
}

type submitInstructionResponse struct {
	Status      string `json:"status"`
	Instruction string `json:"instruction"`
}

func (s *Server) handleSubmitInstruction(w http.ResponseWriter, r *http.Request) {
	var req submitInstructionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(req.Payload), "0x"))
	if err != nil || len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "payload must be non-empty hex")
		return
	}
	metas := make([]ledger.AccountMeta, 0, len(req.Accounts))
	for _, meta := range req.Accounts {
		addr, err := types.ParseAddress(strings.TrimSpace(meta.Address))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid account address "+meta.Address)
			return
		}
		metas = append(metas, ledger.AccountMeta{Address: addr, Signer: meta.Signer, Writable: meta.Writable})
	}

	instruction := commerce.InstructionName(payload[0])
	start := time.Now()
	err = s.ledger.Invoke(s.engine, metas, payload)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.Observe(instruction, outcome, time.Since(start))

	if err != nil {
		s.logger.Warn("instruction rejected",
			"instruction", instruction,
			"err", err,
		)
		writeError(w, instructionStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, submitInstructionResponse{Status: "ok", Instruction: instruction})
}

// instructionStatus maps engine failures onto HTTP statuses: malformed
// submissions are the client's fault, domain rejections are conflicts.
func instructionStatus(err error) int {
	switch {
	case errors.Is(err, commerce.ErrMalformedInstructionData),
		errors.Is(err, commerce.ErrUnknownInstruction),
		errors.Is(err, commerce.ErrNotEnoughAccounts):
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

func (s *Server) pathAccount(w http.ResponseWriter, r *http.Request) (*types.Account, bool) {
	addr, err := types.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return nil, false
	}
	acc, err := s.ledger.GetAccount(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "account lookup failed")
		return nil, false
	}
	return acc, true
}

type merchantResponse struct {
	Address          string `json:"address"`
	Owner            string `json:"owner"`
	Bump             uint8  `json:"bump"`
	SettlementWallet string `json:"settlementWallet"`
}

func (s *Server) handleGetMerchant(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.pathAccount(w, r)
	if !ok {
		return
	}
	merchant, err := commerce.DecodeMerchant(acc.Data)
	if err != nil {
		writeError(w, http.StatusNotFound, "not a merchant record")
		return
	}
	writeJSON(w, http.StatusOK, merchantResponse{
		Address:          acc.Address.String(),
		Owner:            merchant.Owner.String(),
		Bump:             merchant.Bump,
		SettlementWallet: merchant.SettlementWallet.String(),
	})
}

type operatorResponse struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Bump    uint8  `json:"bump"`
}

func (s *Server) handleGetOperator(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.pathAccount(w, r)
	if !ok {
		return
	}
	operator, err := commerce.DecodeOperator(acc.Data)
	if err != nil {
		writeError(w, http.StatusNotFound, "not an operator record")
		return
	}
	writeJSON(w, http.StatusOK, operatorResponse{
		Address: acc.Address.String(),
		Owner:   operator.Owner.String(),
		Bump:    operator.Bump,
	})
}

type policyResponse struct {
	Kind                     string `json:"kind"`
	MaxAmount                uint64 `json:"maxAmount,omitempty"`
	MaxTimeAfterPurchase     uint64 `json:"maxTimeAfterPurchase,omitempty"`
	MinSettlementAmount      uint64 `json:"minSettlementAmount,omitempty"`
	SettlementFrequencyHours uint32 `json:"settlementFrequencyHours,omitempty"`
	AutoSettle               bool   `json:"autoSettle,omitempty"`
}

type configResponse struct {
	Address            string           `json:"address"`
	Version            uint32           `json:"version"`
	Bump               uint8            `json:"bump"`
	Merchant           string           `json:"merchant"`
	Operator           string           `json:"operator"`
	OperatorFee        uint64           `json:"operatorFee"`
	FeeType            string           `json:"feeType"`
	CurrentOrderID     uint32           `json:"currentOrderId"`
	DaysToClose        uint16           `json:"daysToClose"`
	Policies           []policyResponse `json:"policies"`
	AcceptedCurrencies []string         `json:"acceptedCurrencies"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.pathAccount(w, r)
	if !ok {
		return
	}
	cfg, policies, currencies, err := commerce.DecodeConfig(acc.Data)
	if err != nil {
		writeError(w, http.StatusNotFound, "not a config record")
		return
	}
	resp := configResponse{
		Address:            acc.Address.String(),
		Version:            cfg.Version,
		Bump:               cfg.Bump,
		Merchant:           cfg.Merchant.String(),
		Operator:           cfg.Operator.String(),
		OperatorFee:        cfg.OperatorFee,
		FeeType:            feeTypeLabel(cfg.FeeType),
		CurrentOrderID:     cfg.CurrentOrderID,
		DaysToClose:        cfg.DaysToClose,
		Policies:           make([]policyResponse, 0, len(policies)),
		AcceptedCurrencies: make([]string, 0, len(currencies)),
	}
	for _, policy := range policies {
		resp.Policies = append(resp.Policies, policyJSON(policy))
	}
	for _, currency := range currencies {
		resp.AcceptedCurrencies = append(resp.AcceptedCurrencies, currency.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func feeTypeLabel(ft commerce.FeeType) string {
	if ft == commerce.FeeFixed {
		return "fixed"
	}
	return "bps"
}

func policyJSON(policy commerce.Policy) policyResponse {
	switch p := policy.(type) {
	case commerce.RefundPolicy:
		return policyResponse{Kind: "refund", MaxAmount: p.MaxAmount, MaxTimeAfterPurchase: p.MaxTimeAfterPurchase}
	case commerce.ChargebackPolicy:
		return policyResponse{Kind: "chargeback", MaxAmount: p.MaxAmount, MaxTimeAfterPurchase: p.MaxTimeAfterPurchase}
	case commerce.SettlementPolicy:
		return policyResponse{
			Kind:                     "settlement",
			MinSettlementAmount:      p.MinSettlementAmount,
			SettlementFrequencyHours: p.SettlementFrequencyHours,
			AutoSettle:               p.AutoSettle,
		}
	}
	return policyResponse{Kind: "unknown"}
}

type paymentResponse struct {
	Address   string `json:"address"`
	OrderID   uint32 `json:"orderId"`
	Amount    uint64 `json:"amount"`
	CreatedAt int64  `json:"createdAt"`
	Status    string `json:"status"`
	Bump      uint8  `json:"bump"`
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.pathAccount(w, r)
	if !ok {
		return
	}
	payment, err := commerce.DecodePayment(acc.Data)
	if err != nil {
		writeError(w, http.StatusNotFound, "not a payment record")
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse{
		Address:   acc.Address.String(),
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
		CreatedAt: payment.CreatedAt,
		Status:    payment.Status.String(),
		Bump:      payment.Bump,
	})
}

type balanceResponse struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.pathAccount(w, r)
	if !ok {
		return
	}
	amount, err := s.token.BalanceAmount(acc)
	if err != nil {
		writeError(w, http.StatusNotFound, "not a balance account")
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Address: acc.Address.String(),
		Amount:  amount,
	})
}
