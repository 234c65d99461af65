// Package api contains the v1 HTTP contracts of the dashboard API.
package api

// Category strategies accepted by the analyze endpoints.
const (
	StrategyMaterials = "materials"
	StrategyKeyword   = "keyword"
	StrategyRemote    = "remote"
)

// Multipart form fields of the analyze endpoints.
const (
	FieldOrdersFile = "orders_file"
	FieldCostsFile  = "costs_file"
	FieldStrategy   = "category_strategy"
)

// AnalyzeRequest is the validated non-file part of an analyze upload.
type AnalyzeRequest struct {
	CategoryStrategy string `json:"category_strategy" validate:"omitempty,oneof=materials keyword remote"`
	HasOrders        bool   `json:"-"`
	HasCosts         bool   `json:"-"`
}

// TipRequest asks for a fresh optimization tip for the given figures.
type TipRequest struct {
	Revenue    float64 `json:"revenue" validate:"gte=0"`
	Costs      float64 `json:"costs" validate:"gte=0"`
	Margin     float64 `json:"margin" validate:"gte=-1000,lte=100"`
	SalesCount int     `json:"sales_count" validate:"gte=0"`
}
