package handlers

import (
	"tattva/internal/config"
	"tattva/internal/pricing"
	"tattva/internal/repos"
	"tattva/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CategoryHandler     *CategoryHandler
	ProductHandler      *ProductHandler
	SearchHandler       *SearchHandler
	CartHandler         *CartHandler
	OrderHandler        *OrderHandler
	WishlistHandler     *WishlistHandler
	RecipeHandler       *RecipeHandler
	SubscriptionHandler *SubscriptionHandler
	AvailabilityHandler *AvailabilityHandler
	AdminHandler        *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	couponRepo := repos.NewCouponRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	historyRepo := repos.NewHistoryRepo(db)
	recipeRepo := repos.NewRecipeRepo(db)
	subRepo := repos.NewSubscriptionRepo(db)
	userRepo := repos.NewUserRepo(db)

	shipping := pricing.ShippingPolicy{FreeAbove: cfg.FreeShippingAbove, Flat: cfg.ShippingFlat}

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, couponRepo, shipping)
	orderSvc := services.NewOrderService(cartSvc, prodRepo, orderRepo, couponRepo, shipping)
	wishSvc := services.NewWishlistService(wishRepo)
	recSvc := services.NewRecommendService(prodRepo, historyRepo)
	recipeSvc := services.NewRecipeService(recipeRepo, prodRepo, cartSvc)
	subSvc := services.NewSubscriptionService(subRepo)

	return &Deps{
		CategoryHandler:     &CategoryHandler{Catalog: catalogSvc, Recommend: recSvc},
		ProductHandler:      &ProductHandler{Catalog: catalogSvc, Recommend: recSvc, History: historyRepo},
		SearchHandler:       &SearchHandler{Catalog: catalogSvc},
		CartHandler:         &CartHandler{Cart: cartSvc},
		OrderHandler:        &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo, Auth: auth},
		WishlistHandler:     &WishlistHandler{Wish: wishSvc},
		RecipeHandler:       &RecipeHandler{Recipes: recipeSvc},
		SubscriptionHandler: &SubscriptionHandler{Subs: subSvc},
		AvailabilityHandler: &AvailabilityHandler{Catalog: catalogSvc},
		AdminHandler:        &AdminHandler{OrderRepo: orderRepo, ProdRepo: prodRepo, Coupons: couponRepo, Users: userRepo, Catalog: catalogSvc},
	}
}
