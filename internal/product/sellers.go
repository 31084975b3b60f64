package product

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/kaspistat/catalog-service/internal/session"
)

// reconcileSellers upserts the offered sellers by code and makes the
// product's seller links match them exactly. Seller rows are shared and
// never deleted; only links are. Prices stay on the returned snapshot.
func (s *Service) reconcileSellers(ctx context.Context, store SellerStore, sess session.Session, productID int64, offers []SellerOffer) ([]SellerPrice, error) {
	if len(offers) == 0 {
		return []SellerPrice{}, nil
	}

	incoming := map[string]SellerOffer{}
	var codes []string
	for _, o := range offers {
		if o.Code == "" {
			continue
		}
		if _, seen := incoming[o.Code]; !seen {
			codes = append(codes, o.Code)
		}
		incoming[o.Code] = o
	}
	if len(codes) == 0 {
		return []SellerPrice{}, nil
	}

	sellers, err := store.SellersByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("find sellers: %w", err)
	}
	byCode := lo.KeyBy(sellers, func(x Seller) string { return x.Code })

	for _, code := range codes {
		o := incoming[code]
		if cur, ok := byCode[code]; ok {
			if cur.Name != o.Name || cur.URL != o.URL {
				cur.Name, cur.URL = o.Name, o.URL
				if err := store.UpdateSeller(ctx, &cur); err != nil {
					return nil, fmt.Errorf("update seller %s: %w", code, err)
				}
			}
			continue
		}
		created := Seller{Code: code, Name: o.Name, URL: o.URL, SessionID: sess.SessionID}
		if err := store.CreateSeller(ctx, &created); err != nil {
			return nil, fmt.Errorf("create seller %s: %w", code, err)
		}
		sellers = append(sellers, created)
	}

	prices := lo.Map(sellers, func(x Seller, _ int) SellerPrice {
		return SellerPrice{SellerID: x.ID, Price: incoming[x.Code].Price}
	})
	ids := lo.Map(sellers, func(x Seller, _ int) int64 { return x.ID })

	links, err := store.SellerLinks(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("seller links of %d: %w", productID, err)
	}
	linked := lo.Map(links, func(l SellerLink, _ int) int64 { return l.SellerID })
	stale := lo.FilterMap(links, func(l SellerLink, _ int) (int64, bool) {
		return l.ID, !lo.Contains(ids, l.SellerID)
	})
	added := lo.Without(ids, linked...)

	if len(stale) > 0 {
		if err := store.DeleteSellerLinks(ctx, stale); err != nil {
			return nil, fmt.Errorf("delete seller links: %w", err)
		}
	}
	if len(added) > 0 {
		if err := store.InsertSellerLinks(ctx, productID, added); err != nil {
			return nil, fmt.Errorf("insert seller links: %w", err)
		}
	}
	s.metrics.RecordSellerLinks(len(added), len(stale))
	return prices, nil
}
