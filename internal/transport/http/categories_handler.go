package http

import (
	"net/http"

	"github.com/go-chi/render"

	"profitpilot/internal/finance"
	api "profitpilot/pkg/contracts/api/v1"
)

// Categories handles GET /api/categories
func Categories(w http.ResponseWriter, r *http.Request) {
	resp := api.CategoriesResponse{
		Categories:      make([]string, 0, len(finance.Categories)),
		InferenceLabels: append([]string(nil), finance.InferenceLabels...),
		Strategies:      []string{api.StrategyMaterials, api.StrategyKeyword, api.StrategyRemote},
	}
	for _, c := range finance.Categories {
		resp.Categories = append(resp.Categories, string(c))
	}
	render.JSON(w, r, resp)
}
