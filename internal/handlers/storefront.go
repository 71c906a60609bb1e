package handlers

import (
	"fmt"
	"net/http"
	"strings"
)

// ConsentCookie is set by the cookie banner's accept button
const ConsentCookie = "cookie_consent"

// Product represents a product item
type Product struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
}

// Storefront is the catalog the stub shop serves
type Storefront struct {
	Brand    string
	Products []Product
}

// DefaultStorefront returns a small Korean skincare catalog
func DefaultStorefront() Storefront {
	return Storefront{
		Brand: "Catkoreabeauty",
		Products: []Product{
			{Name: "Centella Calming Serum", Description: "Soothing serum for sensitive skin.", Price: "€18.90"},
			{Name: "Vitamin C Brightening Serum", Description: "Daily serum for an even tone.", Price: "€21.50"},
			{Name: "Snail Mucin Ampoule", Description: "Concentrated repair ampoule.", Price: "€24.00"},
			{Name: "Propolis Energy Ampoule", Description: "Nourishing glow ampoule.", Price: "€26.90"},
			{Name: "Rice Milk Toner", Description: "Gentle milky toner.", Price: "€15.40"},
		},
	}
}

// Search returns the products whose name contains query, case-insensitively
func (s Storefront) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var found []Product
	for _, p := range s.Products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			found = append(found, p)
		}
	}
	return found
}

// PageData is the view model shared by every storefront page
type PageData struct {
	Title         string
	Brand         string
	Query         string
	Products      []Product
	Consented     bool
	ConsentCookie string
}

func newPageData(r *http.Request, store Storefront, title string) PageData {
	consent, err := r.Cookie(ConsentCookie)
	return PageData{
		Title:         title,
		Brand:         store.Brand,
		Consented:     err == nil && consent.Value == "accepted",
		ConsentCookie: ConsentCookie,
	}
}

// HomeHandler serves the homepage and, when an "s" query is present, the
// search results page
type HomeHandler struct {
	renderer *Renderer
	store    Storefront
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(renderer *Renderer, store Storefront) *HomeHandler {
	return &HomeHandler{
		renderer: renderer,
		store:    store,
	}
}

// ServeHTTP handles GET / and GET /?s=term
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if r.URL.Query().Has("s") {
		query := r.URL.Query().Get("s")
		data := newPageData(r, h.store, fmt.Sprintf("Search results for “%s” – %s", query, h.store.Brand))
		data.Query = query
		data.Products = h.store.Search(query)
		h.renderer.Render(w, pageSearch, data)
		return
	}

	data := newPageData(r, h.store, h.store.Brand+" – Korean Beauty Shop")
	data.Products = h.store.Products
	h.renderer.Render(w, pageHome, data)
}

// ShopHandler serves the shop listing
type ShopHandler struct {
	renderer *Renderer
	store    Storefront
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(renderer *Renderer, store Storefront) *ShopHandler {
	return &ShopHandler{
		renderer: renderer,
		store:    store,
	}
}

// ServeHTTP handles GET /shop/
func (h *ShopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := newPageData(r, h.store, "Shop – "+h.store.Brand)
	data.Products = h.store.Products
	h.renderer.Render(w, pageShop, data)
}
