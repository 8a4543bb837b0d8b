package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/todaypicks/storefront/internal/cache"
	"github.com/todaypicks/storefront/internal/sheets"
	"github.com/todaypicks/storefront/internal/telemetry"
)

// Fetcher is the slice of the sheets client the catalog needs.
type Fetcher interface {
	Sheet(ctx context.Context, sheet, spreadsheetID string) (sheets.Grid, error)
	FetchRaw(ctx context.Context, sheet, spreadsheetID string) (sheets.Grid, error)
	FetchAll(ctx context.Context, names []string, spreadsheetID string) map[string]sheets.Grid
	CategoryMeta(ctx context.Context, spreadsheetID string) ([]sheets.CategoryMeta, error)
	CategoryHeaderData(ctx context.Context, spreadsheetID string) (*sheets.CategoryHeader, error)
}

// Service shapes spreadsheet rows into catalog listings, memoizing results
// in the process-local TTL cache.
type Service struct {
	fetcher       Fetcher
	cache         *cache.Cache
	spreadsheetID string
	ttl           time.Duration
	logger        zerolog.Logger
}

// NewService creates a catalog service. ttl governs every cached listing.
func NewService(fetcher Fetcher, c *cache.Cache, spreadsheetID string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		fetcher:       fetcher,
		cache:         c,
		spreadsheetID: spreadsheetID,
		ttl:           ttl,
		logger:        log.With().Str("component", "catalog").Logger(),
	}
}

func (s *Service) meta(ctx context.Context) ([]sheets.CategoryMeta, error) {
	key := "catmeta:" + s.spreadsheetID
	if v, ok := s.cache.Read(key); ok {
		telemetry.RecordCacheRead(true)
		return v.([]sheets.CategoryMeta), nil
	}
	telemetry.RecordCacheRead(false)

	meta, err := s.fetcher.CategoryMeta(ctx, s.spreadsheetID)
	if err != nil {
		return nil, err
	}
	s.cache.Write(key, meta, s.ttl)
	return meta, nil
}

// Listing returns the shaped catalog for one category, or for every sheet
// when category is "all".
func (s *Service) Listing(ctx context.Context, category string) (*Listing, error) {
	if category == "" {
		category = AllCategories
	}

	key := fmt.Sprintf("products:%s:%s", s.spreadsheetID, category)
	if v, ok := s.cache.Read(key); ok {
		telemetry.RecordCacheRead(true)
		return v.(*Listing), nil
	}
	telemetry.RecordCacheRead(false)

	var (
		listing *Listing
		err     error
	)
	if category == AllCategories {
		listing, err = s.allListing(ctx)
	} else {
		listing, err = s.categoryListing(ctx, category)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Write(key, listing, s.ttl)
	return listing, nil
}

func (s *Service) allListing(ctx context.Context) (*Listing, error) {
	meta, err := s.meta(ctx)
	if err != nil {
		return nil, err
	}

	header, err := s.fetcher.CategoryHeaderData(ctx, s.spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category metadata: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("category metadata unavailable")
	}

	ids := make([]string, 0, len(meta))
	for _, m := range meta {
		ids = append(ids, m.ID)
	}

	data := s.fetcher.FetchAll(ctx, ids, s.spreadsheetID)

	var products []Product
	for _, id := range ids {
		products = append(products, ProductsFromGrid(data[id])...)
	}
	if len(products) == 0 {
		return nil, ErrNoData
	}

	return &Listing{
		Products:    products,
		Categories:  ExtractCategories(ids, data),
		CurrentName: header.Title,
		CurrentDesc: header.Description,
		Category:    AllCategories,
		TotalItems:  len(products),
	}, nil
}

func (s *Service) categoryListing(ctx context.Context, category string) (*Listing, error) {
	meta, err := s.meta(ctx)
	if err != nil {
		return nil, err
	}

	var metaName string
	valid := false
	for _, m := range meta {
		if m.ID == category {
			valid = true
			metaName = m.Name
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}

	grid, err := s.fetcher.Sheet(ctx, category, s.spreadsheetID)
	if err != nil {
		return nil, err
	}

	products := ProductsFromGrid(grid)
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: category %q", ErrNoData, category)
	}

	data := map[string]sheets.Grid{category: grid}
	categories := ExtractCategories([]string{category}, data)

	currentName := metaName
	currentDesc := fmt.Sprintf("Explore our %s collection", category)
	for _, c := range categories {
		if c.ID == category {
			currentName = c.Name
			currentDesc = c.Description
			break
		}
	}

	return &Listing{
		Products:    products,
		Categories:  categories,
		CurrentName: currentName,
		CurrentDesc: currentDesc,
		Category:    category,
		TotalItems:  len(products),
	}, nil
}

// Categories returns the category list derived from every product sheet.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	key := "categories:" + s.spreadsheetID
	if v, ok := s.cache.Read(key); ok {
		telemetry.RecordCacheRead(true)
		return v.([]Category), nil
	}
	telemetry.RecordCacheRead(false)

	meta, err := s.meta(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(meta))
	for _, m := range meta {
		ids = append(ids, m.ID)
	}

	data := s.fetcher.FetchAll(ctx, ids, s.spreadsheetID)
	categories := ExtractCategories(ids, data)

	s.cache.Write(key, categories, s.ttl)
	return categories, nil
}

// Product returns a single product from a category listing with its detail
// pairs attached.
func (s *Service) Product(ctx context.Context, category, productID string) (*Product, error) {
	listing, err := s.Listing(ctx, category)
	if err != nil {
		return nil, err
	}

	for _, p := range listing.Products {
		if p.ID != productID {
			continue
		}
		details, err := s.Details(ctx, productID)
		if err != nil {
			// Details are supplementary; the product still renders.
			s.logger.Warn().Err(err).Str("product", productID).Msg("Failed to fetch product details")
		} else {
			p.ProDetails = details
		}
		return &p, nil
	}

	return nil, fmt.Errorf("%w: %q in category %q", ErrProductNotFound, productID, category)
}

// Details returns the key/value detail pairs for one product id from the
// shared details sheet.
func (s *Service) Details(ctx context.Context, productID string) ([]Detail, error) {
	key := fmt.Sprintf("details:%s:%s", s.spreadsheetID, productID)
	if v, ok := s.cache.Read(key); ok {
		telemetry.RecordCacheRead(true)
		return v.([]Detail), nil
	}
	telemetry.RecordCacheRead(false)

	grid, err := s.fetcher.FetchRaw(ctx, DetailsSheet, s.spreadsheetID)
	if err != nil {
		return nil, err
	}

	details := DetailsForProduct(grid, productID)
	s.cache.Write(key, details, s.ttl)
	return details, nil
}
