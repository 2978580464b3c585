package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammi749/gamekeys/internal/domain"
	"github.com/ammi749/gamekeys/internal/storage"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Store owns the shopping cart. Mutations are synchronous and immediately
// visible; persistence happens off the caller's path but writes are ordered,
// so the stored copy always converges on the latest mutation.
type Store struct {
	mu    sync.Mutex
	items []domain.CartItem
	gen   uint64

	storage storage.Store

	saveMu    sync.Mutex
	savedGen  uint64
	persistWG sync.WaitGroup
}

// NewStore restores the cart persisted by a previous run. A missing or
// unreadable payload yields an empty cart, never a startup failure.
func NewStore(ctx context.Context, st storage.Store) *Store {
	s := &Store{storage: st}

	saved, err := st.LoadCart(ctx)
	switch {
	case err == nil:
		s.items = saved.Items
	case errors.Is(err, storage.ErrNotFound):
		// first run
	default:
		log.Printf("load cart error, starting empty: %v \n", err)
	}
	return s
}

// Add puts quantity units of product into the cart. Adding a product that
// is already present merges into the existing entry.
func (s *Store) Add(product domain.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity += quantity
			s.scheduleSaveLocked()
			return nil
		}
	}

	var sale *decimal.Decimal
	if product.SalePrice != nil {
		v := *product.SalePrice
		sale = &v
	}
	s.items = append(s.items, domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Platform:  product.Platform,
		UnitPrice: product.Price,
		SalePrice: sale,
		Quantity:  quantity,
	})
	s.scheduleSaveLocked()
	return nil
}

// Remove drops the entry for productID. Removing an absent product is a
// no-op, not an error.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

// SetQuantity replaces the stored quantity. Zero or below means remove.
func (s *Store) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			s.scheduleSaveLocked()
			return
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.scheduleSaveLocked()
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Count is the total number of units across all entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums (sale price when set, unit price otherwise) * quantity over
// all entries, using the prices captured when each item was added.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// OrderItems projects the cart into the shape the order endpoint accepts,
// dropping the captured prices.
func (s *Store) OrderItems() []domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.OrderItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, domain.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

// Flush blocks until every scheduled persist has finished. Tests and
// process shutdown use it.
func (s *Store) Flush() {
	s.persistWG.Wait()
}

func (s *Store) removeLocked(productID int64) {
	for i, item := range s.items {
		if item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.scheduleSaveLocked()
			return
		}
	}
}

// scheduleSaveLocked snapshots the cart and persists it in the background.
// Each snapshot carries a generation number; a writer that lost the race to
// a newer snapshot skips its write, so the last mutation always wins.
func (s *Store) scheduleSaveLocked() {
	s.gen++
	gen := s.gen
	snap := domain.Cart{
		Items:     make([]domain.CartItem, len(s.items)),
		UpdatedAt: time.Now(),
	}
	copy(snap.Items, s.items)

	s.persistWG.Add(1)
	go func() {
		defer s.persistWG.Done()
		s.persist(gen, snap)
	}()
}

func (s *Store) persist(gen uint64, snap domain.Cart) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if gen <= s.savedGen {
		return // a newer snapshot already landed
	}
	// Marked before the write: if the write fails, an older queued snapshot
	// must not land on top of it and roll the stored copy backwards.
	s.savedGen = gen

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.storage.SaveCart(ctx, snap); err != nil {
		log.Printf("persist cart error: %v \n", err)
	}
}
