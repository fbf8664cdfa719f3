package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GenerationRequest is the closed set of submission variants. Each variant
// knows its backend endpoint and validates its own required fields; validation
// runs before any network call is issued.
type GenerationRequest interface {
	// Endpoint returns the backend path the variant is posted to.
	Endpoint() string
	// Validate checks the minimum required fields for the variant.
	Validate() error
	// Source identifies the variant kind for history records.
	Source() string
	// Subject returns the company name or symbol for display.
	Subject() string
}

// StockRequest generates a model from a listed stock symbol.
type StockRequest struct {
	Symbol        string   `json:"symbol"`
	Exchange      string   `json:"exchange"`
	ForecastYears int      `json:"forecast_years"`
	ModelTypes    []string `json:"model_types"`
}

// NewStockRequest returns a StockRequest with backend defaults applied.
func NewStockRequest(symbol string) StockRequest {
	return StockRequest{
		Symbol:        strings.ToUpper(strings.TrimSpace(symbol)),
		Exchange:      "NSE",
		ForecastYears: 5,
		ModelTypes:    []string{"three_statement", "dcf"},
	}
}

func (r StockRequest) Endpoint() string { return "/api/model/generate" }
func (r StockRequest) Source() string   { return SourceStock }
func (r StockRequest) Subject() string  { return r.Symbol }

func (r StockRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("a stock symbol must be selected")
	}
	if r.ForecastYears < 1 || r.ForecastYears > 10 {
		return fmt.Errorf("forecast years must be between 1 and 10, got %d", r.ForecastYears)
	}
	return nil
}

// RawDataRequest generates a model from caller-supplied financials instead of
// scraped data.
type RawDataRequest struct {
	CompanyName    string                 `json:"company_name"`
	Industry       string                 `json:"industry"`
	ForecastYears  int                    `json:"forecast_years"`
	HistoricalData map[string]interface{} `json:"historical_data"`
	Assumptions    map[string]float64     `json:"assumptions"`
}

// NewRawDataRequest returns a RawDataRequest with backend defaults applied.
func NewRawDataRequest(companyName string) RawDataRequest {
	return RawDataRequest{
		CompanyName:    strings.TrimSpace(companyName),
		Industry:       "general",
		ForecastYears:  5,
		HistoricalData: map[string]interface{}{},
		Assumptions:    map[string]float64{},
	}
}

func (r RawDataRequest) Endpoint() string { return "/api/model/generate-raw" }
func (r RawDataRequest) Source() string   { return SourceRaw }
func (r RawDataRequest) Subject() string  { return r.CompanyName }

func (r RawDataRequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" {
		return fmt.Errorf("company name must not be empty")
	}
	if r.ForecastYears < 1 || r.ForecastYears > 10 {
		return fmt.Errorf("forecast years must be between 1 and 10, got %d", r.ForecastYears)
	}
	return nil
}

// LBORequest generates a leveraged buyout model.
type LBORequest struct {
	CompanyName    string             `json:"company_name"`
	Industry       string             `json:"industry"`
	FinancialData  map[string]float64 `json:"financial_data"`
	LBOAssumptions map[string]float64 `json:"lbo_assumptions"`
}

func (r LBORequest) Endpoint() string { return "/api/model/generate-lbo" }
func (r LBORequest) Source() string   { return SourceLBO }
func (r LBORequest) Subject() string  { return r.CompanyName }

func (r LBORequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" {
		return fmt.Errorf("company name must not be empty")
	}
	return nil
}

// DefaultLBOAssumptions mirrors the backend's fallback deal parameters. The
// backend fills in anything omitted, so these exist only to seed CLI flags.
func DefaultLBOAssumptions() map[string]float64 {
	return map[string]float64{
		"entry_multiple":          8.0,
		"exit_multiple":           8.0,
		"holding_period":          5,
		"senior_debt_multiple":    3.0,
		"senior_interest_rate":    0.08,
		"mezz_debt_multiple":      1.5,
		"mezz_interest_rate":      0.12,
		"transaction_fees_pct":    0.02,
		"financing_fees_pct":      0.03,
		"management_rollover_pct": 0.10,
	}
}

// MARequest generates a merger model for an acquirer/target pair.
type MARequest struct {
	AcquirerData           map[string]interface{} `json:"acquirer_data"`
	TargetData             map[string]interface{} `json:"target_data"`
	TransactionAssumptions map[string]float64     `json:"transaction_assumptions"`
}

func (r MARequest) Endpoint() string { return "/api/model/generate-ma" }
func (r MARequest) Source() string   { return SourceMA }

func (r MARequest) Subject() string {
	acquirer := companyName(r.AcquirerData)
	target := companyName(r.TargetData)
	if acquirer == "" || target == "" {
		return acquirer + target
	}
	return acquirer + " / " + target
}

func (r MARequest) Validate() error {
	if companyName(r.AcquirerData) == "" {
		return fmt.Errorf("acquirer name must not be empty")
	}
	if companyName(r.TargetData) == "" {
		return fmt.Errorf("target name must not be empty")
	}
	return nil
}

func companyName(data map[string]interface{}) string {
	name, _ := data["name"].(string)
	return strings.TrimSpace(name)
}

// DefaultMAAssumptions mirrors the backend's fallback transaction parameters.
func DefaultMAAssumptions() map[string]float64 {
	return map[string]float64{
		"offer_premium":        0.25,
		"percent_stock":        0.50,
		"percent_cash":         0.50,
		"synergies_revenue":    0,
		"synergies_cost":       0,
		"transaction_fees_pct": 0.02,
		"financing_rate":       0.06,
	}
}

// UploadRequest submits a user's own Excel workbook for model rebuilding.
// Posted as multipart form data rather than JSON.
type UploadRequest struct {
	FilePath    string `json:"-"`
	CompanyName string `json:"company_name,omitempty"`
	ModelType   string `json:"model_type,omitempty"`
}

func (r UploadRequest) Endpoint() string { return "/api/model/upload-excel" }
func (r UploadRequest) Source() string   { return SourceUpload }

func (r UploadRequest) Subject() string {
	if r.CompanyName != "" {
		return r.CompanyName
	}
	return filepath.Base(r.FilePath)
}

func (r UploadRequest) Validate() error {
	if strings.TrimSpace(r.FilePath) == "" {
		return fmt.Errorf("an Excel file must be provided")
	}
	if ext := strings.ToLower(filepath.Ext(r.FilePath)); ext != ".xlsx" && ext != ".xls" {
		return fmt.Errorf("unsupported file type %q, expected .xlsx or .xls", ext)
	}
	return nil
}
