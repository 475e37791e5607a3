package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpryor812/shopify-aloha/internal/config"
	"github.com/jpryor812/shopify-aloha/internal/domain"
	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

const (
	catalogRequestTimeout = 15 * time.Second
	maxVariantsPerProduct = 10
)

const productsQuery = `
query getProducts($first: Int!, $query: String) {
  products(first: $first, query: $query) {
    edges {
      node {
        id
        title
        description
        productType
        tags
        priceRange {
          minVariantPrice {
            amount
            currencyCode
          }
        }
        images(first: 1) {
          edges {
            node {
              originalSrc
              altText
            }
          }
        }
        variants(first: 10) {
          edges {
            node {
              id
              title
              availableForSale
              price
            }
          }
        }
      }
    }
  }
}`

const checkoutCreateMutation = `
mutation checkoutCreate($input: CheckoutCreateInput!) {
  checkoutCreate(input: $input) {
    checkout {
      id
      webUrl
    }
    checkoutUserErrors {
      code
      field
      message
    }
  }
}`

// CatalogService talks to the Shopify Storefront and Admin GraphQL APIs
// and keeps an in-memory snapshot of the full catalog for context reuse.
type CatalogService struct {
	httpClient    *http.Client
	config        *config.Config
	storefrontURL string
	adminURL      string

	mu    sync.RWMutex
	cache []models.Product
}

func NewCatalogService(cfg *config.Config) *CatalogService {
	return NewCatalogServiceWithEndpoints(cfg,
		fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.ShopDomain, cfg.ShopifyAPIVersion),
		fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.ShopDomain, cfg.ShopifyAPIVersion),
	)
}

// NewCatalogServiceWithEndpoints targets explicit GraphQL endpoints, for
// proxies and test doubles.
func NewCatalogServiceWithEndpoints(cfg *config.Config, storefrontURL, adminURL string) *CatalogService {
	return &CatalogService{
		httpClient:    &http.Client{Timeout: catalogRequestTimeout},
		config:        cfg,
		storefrontURL: storefrontURL,
		adminURL:      adminURL,
	}
}

// SearchProducts runs a live Storefront query for the filter. Only the
// free-text part of the filter is pushed to the provider; type, tag and
// price constraints are applied over the returned page. Provider failures
// degrade to an empty slice so a broken catalog never kills a turn.
func (s *CatalogService) SearchProducts(ctx context.Context, filter models.SearchFilter, limit int) []models.Product {
	products, err := s.fetchProducts(ctx, filter, limit)
	if err != nil {
		utils.LogError(ctx, "❌ catalog search failed", err)
		return []models.Product{}
	}
	return products
}

func (s *CatalogService) fetchProducts(ctx context.Context, filter models.SearchFilter, limit int) ([]models.Product, error) {
	variables := map[string]any{"first": limit}
	if filter.Query != "" {
		variables["query"] = filter.Query
	}

	utils.LogInfo(ctx, "🔍 catalog search initiated",
		slog.String("query", filter.Query),
		slog.String("product_type", filter.ProductType),
		slog.Int("limit", limit),
	)

	body, err := s.storefrontRequest(ctx, productsQuery, variables)
	if err != nil {
		return nil, err
	}

	var resp domain.ProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("catalog query rejected: %s", resp.Errors[0].Message)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("catalog response had no data")
	}

	products := normalizeProducts(resp.Data.Products.Edges)
	products = applyFilter(products, filter)

	utils.LogInfo(ctx, "✅ catalog search completed", slog.Int("product_count", len(products)))
	return products, nil
}

// RefreshAll replaces the catalog snapshot with a fresh unfiltered page,
// empty pages included. On transport or decode failure the previous
// snapshot is kept.
func (s *CatalogService) RefreshAll(ctx context.Context) []models.Product {
	products, err := s.fetchProducts(ctx, models.SearchFilter{}, s.config.ProductLimit)
	if err != nil {
		utils.LogError(ctx, "❌ catalog refresh failed", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		return cloneProducts(s.cache)
	}

	s.mu.Lock()
	s.cache = products
	s.mu.Unlock()

	utils.LogInfo(ctx, "♻️ catalog snapshot refreshed", slog.Int("product_count", len(products)))
	return cloneProducts(products)
}

// CachedProducts returns the current snapshot, nil if never populated.
func (s *CatalogService) CachedProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return nil
	}
	return cloneProducts(s.cache)
}

// CreateCheckout builds an Admin API checkout holding one unit of the
// product's first variant and returns the hosted checkout URL.
func (s *CatalogService) CreateCheckout(ctx context.Context, productID string) (*models.Checkout, error) {
	product, ok := s.findProduct(ctx, productID)
	if !ok {
		return nil, fmt.Errorf("product %s not found", productID)
	}
	if len(product.Variants) == 0 {
		return nil, fmt.Errorf("product %s has no purchasable variants", productID)
	}

	variantGID := fmt.Sprintf("gid://shopify/ProductVariant/%s", product.Variants[0].ID)
	variables := map[string]any{
		"input": map[string]any{
			"lineItems": []map[string]any{
				{"variantId": variantGID, "quantity": 1},
			},
		},
	}

	body, err := s.adminRequest(ctx, checkoutCreateMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("checkout create: %w", err)
	}

	var resp domain.CheckoutCreateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("checkout create decode: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("checkout create rejected: %s", resp.Errors[0].Message)
	}
	if resp.Data == nil || resp.Data.CheckoutCreate.Checkout == nil {
		if resp.Data != nil && len(resp.Data.CheckoutCreate.CheckoutUserErrors) > 0 {
			ue := resp.Data.CheckoutCreate.CheckoutUserErrors[0]
			return nil, fmt.Errorf("checkout create rejected: %s", ue.Message)
		}
		return nil, fmt.Errorf("checkout create returned no checkout")
	}

	checkout := &models.Checkout{
		ID:     resp.Data.CheckoutCreate.Checkout.ID,
		WebURL: resp.Data.CheckoutCreate.Checkout.WebURL,
	}

	utils.LogInfo(ctx, "🛒 checkout created",
		slog.String("product_id", productID),
		slog.String("checkout_id", checkout.ID),
	)
	return checkout, nil
}

func (s *CatalogService) findProduct(ctx context.Context, productID string) (models.Product, bool) {
	s.mu.RLock()
	for _, p := range s.cache {
		if p.ID == productID {
			s.mu.RUnlock()
			return p, true
		}
	}
	s.mu.RUnlock()

	// Cache miss, ask the provider directly.
	for _, p := range s.RefreshAll(ctx) {
		if p.ID == productID {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *CatalogService) storefrontRequest(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	headers := map[string]string{
		"X-Shopify-Storefront-Access-Token": s.config.StorefrontAccessToken,
	}
	return s.graphqlRequest(ctx, s.storefrontURL, headers, query, variables)
}

func (s *CatalogService) adminRequest(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	headers := map[string]string{
		"X-Shopify-Access-Token": s.config.AdminAccessToken,
	}
	return s.graphqlRequest(ctx, s.adminURL, headers, query, variables)
}

func (s *CatalogService) graphqlRequest(ctx context.Context, url string, headers map[string]string, query string, variables map[string]any) ([]byte, error) {
	payload, err := json.Marshal(domain.GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var body []byte
	err = utils.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		utils.LogInfo(ctx, "⏱️ storefront response received",
			slog.Float64("duration_seconds", time.Since(start).Seconds()),
		)
		return nil
	}, utils.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	return body, nil
}

// normalizeProducts flattens GraphQL edges into catalog products, stripping
// the gid namespace so IDs stay stable across API versions.
func normalizeProducts(edges []domain.ProductEdge) []models.Product {
	products := make([]models.Product, 0, len(edges))
	for _, edge := range edges {
		node := edge.Node

		p := models.Product{
			ID:          stripGID(node.ID),
			Title:       node.Title,
			Description: node.Description,
			ProductType: node.ProductType,
			Tags:        node.Tags,
			Price:       node.PriceRange.MinVariantPrice.Amount,
			Currency:    node.PriceRange.MinVariantPrice.CurrencyCode,
		}

		if len(node.Images.Edges) > 0 {
			p.ImageURL = node.Images.Edges[0].Node.OriginalSrc
			p.ImageAlt = node.Images.Edges[0].Node.AltText
		}

		for i, ve := range node.Variants.Edges {
			if i >= maxVariantsPerProduct {
				break
			}
			p.Variants = append(p.Variants, models.ProductVariant{
				ID:        stripGID(ve.Node.ID),
				Title:     ve.Node.Title,
				Price:     ve.Node.Price,
				Available: ve.Node.AvailableForSale,
			})
		}

		products = append(products, p)
	}
	return products
}

// applyFilter enforces the structured constraints the provider query does
// not express over the retrieved page.
func applyFilter(products []models.Product, filter models.SearchFilter) []models.Product {
	if filter.ProductType == "" && filter.Tag == "" && filter.PriceMin == nil && filter.PriceMax == nil {
		return products
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filter.ProductType != "" && !strings.EqualFold(p.ProductType, filter.ProductType) {
			continue
		}
		if filter.Tag != "" && !hasTag(p.Tags, filter.Tag) {
			continue
		}
		if filter.PriceMin != nil || filter.PriceMax != nil {
			price, err := strconv.ParseFloat(p.Price, 64)
			if err != nil {
				continue
			}
			if filter.PriceMin != nil && price < *filter.PriceMin {
				continue
			}
			if filter.PriceMax != nil && price > *filter.PriceMax {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// stripGID turns "gid://shopify/Product/123" into "123".
func stripGID(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx != -1 {
		return gid[idx+1:]
	}
	return gid
}

func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}
