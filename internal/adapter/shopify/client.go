package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/nikkifashion/stockbot/internal/core/domain"
)

const resolveIdentifiersQuery = `
query($sku:String!){
  productVariants(first:1,query:$sku){edges{node{inventoryItem{id}}}}
  locations(first:1){edges{node{id}}}
}`

const productBySKUQuery = `
query($sku:String!){
  shop{currencyCode}
  products(first:1,query:$sku){
    edges{node{
      title description onlineStoreUrl
      images(first:5){edges{node{src}}}
      variants(first:5){edges{node{sku title price inventoryQuantity}}}
    }}
  }
}`

const setQuantitiesMutation = `
mutation($in:InventorySetQuantitiesInput!){
  inventorySetQuantities(input:$in){
    inventoryAdjustmentGroup{changes{name delta}}
    userErrors{field message}
  }
}`

// Client talks to the Shopify Admin GraphQL API and implements
// port.InventoryAPI. It holds no state beyond credentials and never
// retries a failed call.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *zap.Logger
}

func NewClient(endpoint, token string, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     httpClient,
		logger:   logger,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// execute posts one GraphQL document. Remote-reported errors come back in
// the first return value; transport and decoding failures as the second.
func (c *Client) execute(ctx context.Context, query string, vars map[string]any, out any) ([]graphQLError, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post graphql: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("graphql endpoint returned status %d", resp.StatusCode)
	}

	var envelope graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return envelope.Errors, nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return nil, nil
}

// ResolveIdentifiers looks up the first variant matching the SKU and the
// first configured location. Absence of either, or remote field errors,
// resolves to (nil, nil); the caller decides whether that is terminal.
func (c *Client) ResolveIdentifiers(ctx context.Context, sku string) (*domain.IdentifierPair, error) {
	var out struct {
		ProductVariants struct {
			Edges []struct {
				Node struct {
					InventoryItem struct {
						ID string `json:"id"`
					} `json:"inventoryItem"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"productVariants"`
		Locations struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"locations"`
	}

	gqlErrs, err := c.execute(ctx, resolveIdentifiersQuery, map[string]any{"sku": sku}, &out)
	if err != nil {
		return nil, err
	}
	if len(gqlErrs) > 0 {
		c.logger.Error("resolve identifiers reported errors",
			zap.String("sku", sku),
			zap.String("message", gqlErrs[0].Message))
		return nil, nil
	}

	variants := out.ProductVariants.Edges
	locations := out.Locations.Edges
	if len(variants) == 0 || len(locations) == 0 {
		return nil, nil
	}

	return &domain.IdentifierPair{
		InventoryItemID: variants[0].Node.InventoryItem.ID,
		LocationID:      locations[0].Node.ID,
	}, nil
}

// ProductBySKU fetches the shop currency and the first matching product
// with up to 5 images and 5 variants. No match resolves to (nil, nil);
// partial snapshots are never returned.
func (c *Client) ProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var out struct {
		Shop struct {
			CurrencyCode string `json:"currencyCode"`
		} `json:"shop"`
		Products struct {
			Edges []struct {
				Node struct {
					Title          string `json:"title"`
					Description    string `json:"description"`
					OnlineStoreURL string `json:"onlineStoreUrl"`
					Images         struct {
						Edges []struct {
							Node struct {
								Src string `json:"src"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"images"`
					Variants struct {
						Edges []struct {
							Node struct {
								SKU               string `json:"sku"`
								Title             string `json:"title"`
								Price             string `json:"price"`
								InventoryQuantity int    `json:"inventoryQuantity"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}

	gqlErrs, err := c.execute(ctx, productBySKUQuery, map[string]any{"sku": sku}, &out)
	if err != nil {
		return nil, err
	}
	if len(gqlErrs) > 0 {
		c.logger.Error("product lookup reported errors",
			zap.String("sku", sku),
			zap.String("message", gqlErrs[0].Message))
		return nil, nil
	}

	edges := out.Products.Edges
	if len(edges) == 0 {
		return nil, nil
	}
	node := edges[0].Node

	product := &domain.Product{
		Title:        node.Title,
		Description:  node.Description,
		URL:          node.OnlineStoreURL,
		CurrencyCode: out.Shop.CurrencyCode,
	}
	for _, img := range node.Images.Edges {
		product.Images = append(product.Images, img.Node.Src)
	}
	for _, v := range node.Variants.Edges {
		product.Variants = append(product.Variants, domain.Variant{
			SKU:      v.Node.SKU,
			Title:    v.Node.Title,
			Price:    v.Node.Price,
			Quantity: v.Node.InventoryQuantity,
		})
	}
	return product, nil
}

// SetAvailableQuantity sets the on-hand quantity to an absolute value,
// skipping the compare-quantity check. The call is idempotent: repeating
// it with the same target leaves the same end state.
func (c *Client) SetAvailableQuantity(ctx context.Context, pair domain.IdentifierPair, quantity int) (*domain.MutationOutcome, error) {
	input := map[string]any{
		"name":                  "available",
		"reason":                "other",
		"ignoreCompareQuantity": true,
		"quantities": []map[string]any{{
			"inventoryItemId": pair.InventoryItemID,
			"locationId":      pair.LocationID,
			"quantity":        quantity,
		}},
	}

	var out struct {
		InventorySetQuantities *struct {
			InventoryAdjustmentGroup *struct {
				Changes []struct {
					Name  string `json:"name"`
					Delta int    `json:"delta"`
				} `json:"changes"`
			} `json:"inventoryAdjustmentGroup"`
			UserErrors []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"inventorySetQuantities"`
	}

	gqlErrs, err := c.execute(ctx, setQuantitiesMutation, map[string]any{"in": input}, &out)
	if err != nil {
		return nil, err
	}
	if len(gqlErrs) > 0 {
		remote := &domain.RemoteError{}
		for _, e := range gqlErrs {
			remote.Errors = append(remote.Errors, domain.UserError{Message: e.Message})
		}
		return nil, remote
	}

	payload := out.InventorySetQuantities
	if payload == nil {
		return nil, &domain.RemoteError{Errors: []domain.UserError{
			{Message: "empty inventorySetQuantities payload"},
		}}
	}
	if len(payload.UserErrors) > 0 {
		remote := &domain.RemoteError{}
		for _, e := range payload.UserErrors {
			remote.Errors = append(remote.Errors, domain.UserError{Field: e.Field, Message: e.Message})
		}
		return nil, remote
	}

	outcome := &domain.MutationOutcome{}
	if payload.InventoryAdjustmentGroup != nil {
		for _, ch := range payload.InventoryAdjustmentGroup.Changes {
			outcome.Changes = append(outcome.Changes, domain.QuantityChange{Name: ch.Name, Delta: ch.Delta})
		}
	}
	return outcome, nil
}
