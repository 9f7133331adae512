package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
)

const searchMaxLimit = 100

// SearchHitResponse is one search result with its seller details
type SearchHitResponse struct {
	Product   ProductResponse `json:"product"`
	StoreName string          `json:"store_name"`
	City      string          `json:"city"`
	State     string          `json:"state"`
}

// SearchResponse carries the paginated search results
type SearchResponse struct {
	Results    []SearchHitResponse `json:"results"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Limit      int                 `json:"limit"`
}

// HandleSearchPerfumes handles GET /v1/search, the public storefront
// search: all vendors in a city/state, optional name term and price
// bounds, sorted by sales count unless a price sort is requested.
func HandleSearchPerfumes(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		city := strings.TrimSpace(c.Query("city"))
		if city == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
			return
		}
		state := strings.TrimSpace(c.Query("state"))
		if len(state) != 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "state must be a two letter UF code"})
			return
		}

		priceMin, ok := parsePriceQuery(c, "price_min")
		if !ok {
			return
		}
		priceMax, ok := parsePriceQuery(c, "price_max")
		if !ok {
			return
		}

		sort := c.DefaultQuery("sort", repository.SortBestSelling)
		switch sort {
		case repository.SortLowestPrice, repository.SortHighestPrice, repository.SortBestSelling:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of lowest_price, highest_price, best_selling"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit > searchMaxLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must not exceed 100"})
			return
		}
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}

		hits, total, err := repos.Products.Search(c.Request.Context(), repository.SearchFilter{
			City:     city,
			State:    state,
			Term:     strings.TrimSpace(c.Query("name")),
			PriceMin: priceMin,
			PriceMax: priceMax,
			Sort:     sort,
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		results := make([]SearchHitResponse, len(hits))
		for i, h := range hits {
			results[i] = newSearchHitResponse(h)
		}
		c.JSON(http.StatusOK, SearchResponse{
			Results:    results,
			Total:      total,
			Page:       page,
			TotalPages: (total + limit - 1) / limit,
			Limit:      limit,
		})
	}
}

func newSearchHitResponse(h *domain.SearchHit) SearchHitResponse {
	return SearchHitResponse{
		Product:   newProductResponse(&h.Perfume),
		StoreName: h.StoreName,
		City:      h.City,
		State:     h.State,
	}
}

// parsePriceQuery reads an optional non-negative price query parameter.
// A false return means the response has already been written.
func parsePriceQuery(c *gin.Context, key string) (*float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a non-negative number"})
		return nil, false
	}
	return &v, true
}
