package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/csvimport"
	"github.com/rgehrsitz/hiquote/internal/domain"
	"github.com/rgehrsitz/hiquote/internal/ratestore"
	"github.com/shopspring/decimal"
)

// QuoteResponse carries a calculation result and the rate tables it was priced with
type QuoteResponse struct {
	ProductID  string                    `json:"productId"`
	RateSource ratestore.Source          `json:"rateSource"`
	Quote      *domain.Quote             `json:"quote,omitempty"`
	Result     *domain.CalculationResult `json:"result"`
}

// calculateQuote prices a JSON quote. The productId query parameter overrides the
// product named in the quote's general info.
func (s *Server) calculateQuote(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	q, err := config.NewInputParser().ParseQuoteJSON(data)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quote", err)
		return
	}
	if id := r.URL.Query().Get("productId"); id != "" {
		q.General.ProductID = id
	}

	resp, err := s.price(r, q)
	if err != nil {
		respondError(w, priceErrorStatus(err), "failed to calculate quote", err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// importQuote reads groups from a CSV body and prices them under the general info
// given as query parameters.
func (s *Server) importQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	info, err := generalInfoFromQuery(query)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid general info", err)
		return
	}

	reader := csvimport.NewReader()
	if v := query.Get("monthsThreshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid monthsThreshold", err)
			return
		}
		reader.MonthsThreshold = n
	}
	if v := query.Get("delimiter"); v != "" {
		if v == "semicolon" || v == ";" {
			reader.Comma = ';'
		} else if v != "comma" && v != "," {
			respondError(w, http.StatusBadRequest, "invalid delimiter", fmt.Errorf("want comma or semicolon, got %q", v))
			return
		}
	}

	groups, err := reader.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid CSV", err)
		return
	}

	q := &domain.Quote{Name: query.Get("name"), General: info, Groups: groups}
	if err := config.NewInputParser().ValidateQuote(q); err != nil {
		respondError(w, http.StatusBadRequest, "invalid quote", err)
		return
	}

	resp, err := s.price(r, q)
	if err != nil {
		respondError(w, priceErrorStatus(err), "failed to calculate quote", err)
		return
	}
	resp.Quote = q
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) price(r *http.Request, q *domain.Quote) (*QuoteResponse, error) {
	cfg, source := s.resolver.Resolve(r.Context(), q.General.ProductID)

	result, err := s.engine.CalculateQuote(q, cfg)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("priced quote %s with %s rates (%s): %s", result.QuoteID, cfg.ProductID, source, result.FinalPremium.String())

	return &QuoteResponse{
		ProductID:  cfg.ProductID,
		RateSource: source,
		Result:     result,
	}, nil
}

// priceErrorStatus maps an engine error to a response status: malformed policy
// parameters are the client's fault, anything else (an invalid stored rate table) is ours
func priceErrorStatus(err error) int {
	if errors.Is(err, calculation.ErrInvalidGeneralInfo) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// generalInfoFromQuery builds policy parameters from query values. A group contract,
// Vietnam cover, a full year, no co-pay, zero loss ratio and a new contract are assumed
// for missing values.
func generalInfoFromQuery(v url.Values) (domain.GeneralInfo, error) {
	info := domain.GeneralInfo{
		ProductID:    v.Get("productId"),
		ContractType: domain.ContractType(valueOr(v, "contractType", string(domain.ContractGroup))),
		Duration:     domain.Duration(valueOr(v, "duration", string(domain.DurationOver9Months))),
		Renewal:      domain.RenewalStatus(valueOr(v, "renewal", string(domain.RenewalNonContinuous))),
		LossRatio:    decimal.Zero,
	}

	geo, err := domain.ParseGeography(valueOr(v, "geography", string(domain.GeographyVietnam)))
	if err != nil {
		return info, err
	}
	info.Geography = geo

	if s := v.Get("coPay"); s != "" {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
		if err != nil {
			return info, fmt.Errorf("invalid coPay %q", s)
		}
		info.CoPay = domain.CoPay(n)
	}

	if s := v.Get("lossRatio"); s != "" {
		lr, err := decimal.NewFromString(s)
		if err != nil {
			return info, fmt.Errorf("invalid lossRatio %q", s)
		}
		info.LossRatio = lr
	}

	return info, info.Validate()
}

func valueOr(v url.Values, key, fallback string) string {
	if s := strings.TrimSpace(v.Get(key)); s != "" {
		return s
	}
	return fallback
}
