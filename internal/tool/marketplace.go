package tool

import (
	"context"
	"fmt"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// MarketplaceHandlers exposes the sale listing operations to the model.
func MarketplaceHandlers(svc domain.MarketplaceService) []Handler {
	return []Handler{
		op{
			name: "create_marketplace_listing",
			desc: "Met un animal en vente sur la place de marché avec son prix demandé.",
			params: objectSchema(map[string]interface{}{
				"animal_code": stringProp("Code ou nom de l'animal à vendre"),
				"price_fcfa":  numberProp("Prix demandé en FCFA"),
				"note":        stringProp("Détail de l'annonce"),
			}, "animal_code", "price_fcfa"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				code := argString(args, "animal_code")
				if code == "" {
					return failure(kerrors.InvalidInput("code de l'animal manquant"))
				}
				price, err := normalizeAmount(args["price_fcfa"])
				if err != nil {
					return failure(err)
				}

				listing, err := svc.CreateListing(ctx, id.ProjectID, id.UserID, domain.ListingInput{
					AnimalCode: code,
					PriceFCFA:  price,
					Note:       argString(args, "note"),
				})
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("Annonce créée pour %s à %s FCFA", code, formatFCFA(price)), listing)
			},
		},
		op{
			name:   "get_marketplace_listings",
			desc:   "Liste les annonces de vente actives du projet.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				listings, err := svc.ListListings(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("%d annonces actives", len(listings)), listings)
			},
		},
		op{
			name: "close_marketplace_listing",
			desc: "Clôture une annonce de vente, que l'animal soit vendu ou retiré.",
			params: objectSchema(map[string]interface{}{
				"listing_id": stringProp("Identifiant de l'annonce à clôturer"),
			}, "listing_id"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				listingID := argString(args, "listing_id")
				if listingID == "" {
					return failure(kerrors.InvalidInput("identifiant de l'annonce manquant"))
				}
				listing, err := svc.CloseListing(ctx, listingID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success("Annonce clôturée", listing)
			},
		},
		op{
			name:   "get_marketplace_sales",
			desc:   "Donne l'historique des ventes conclues via la place de marché.",
			params: objectSchema(map[string]interface{}{}),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				sales, err := svc.SalesHistory(ctx, id.ProjectID, id.UserID)
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("%d ventes conclues", len(sales)), sales)
			},
		},
	}
}
