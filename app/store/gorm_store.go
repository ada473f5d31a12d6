package store

import (
	"context"
	"fmt"
	"time"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItemRecord is the persisted row shape for the MySQL backend. One row
// per line item, keyed by the owning cart profile.
type CartItemRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	CartID    string `gorm:"size:64;index"`
	ProductID string `gorm:"size:64"`
	Name      string
	UnitPrice decimal.Decimal `gorm:"type:decimal(16,2)"`
	Quantity  int
	ImageURL  string
	ServiceID string `gorm:"size:64"`
	TypeOf    string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartItemRecord) TableName() string { return "cart_items" }

// GormStore persists the cart as rows in MySQL. Used by deployments that
// want the cache to survive host replacement.
type GormStore struct {
	db     *gorm.DB
	cartID string
}

func NewGormStore(db *gorm.DB, cartID string) *GormStore {
	if cartID == "" {
		cartID = CartKey
	}
	return &GormStore{db: db, cartID: cartID}
}

// AutoMigrate creates the backing table.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&CartItemRecord{})
}

func (s *GormStore) Load(ctx context.Context) (models.Cart, error) {
	var records []CartItemRecord
	err := s.db.WithContext(ctx).
		Where("cart_id = ?", s.cartID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return models.EmptyCart(), fmt.Errorf("failed to load cart rows: %w", err)
	}

	inputs := make([]models.LineItemInput, 0, len(records))
	for _, rec := range records {
		inputs = append(inputs, models.LineItemInput{
			ProductID: rec.ProductID,
			Name:      rec.Name,
			Price:     rec.UnitPrice,
			Quantity:  rec.Quantity,
			ImageURL:  rec.ImageURL,
			ServiceID: rec.ServiceID,
			TypeOf:    rec.TypeOf,
		})
	}

	cart := models.Cart{Items: models.NormalizeItems(inputs)}
	cart.Recount()
	return cart, nil
}

// Save replaces the stored rows wholesale inside one transaction so a crash
// can never leave a half-written cart behind.
func (s *GormStore) Save(ctx context.Context, cart models.Cart) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", s.cartID).Delete(&CartItemRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous cart rows: %w", err)
		}

		if len(cart.Items) == 0 {
			return nil
		}

		records := make([]CartItemRecord, 0, len(cart.Items))
		for _, item := range cart.Items {
			records = append(records, CartItemRecord{
				CartID:    s.cartID,
				ProductID: item.ProductID,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
				ImageURL:  item.ImageURL,
				ServiceID: item.ServiceID,
				TypeOf:    item.TypeOf,
			})
		}

		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to insert cart rows: %w", err)
		}
		return nil
	})
}

func (s *GormStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Where("cart_id = ?", s.cartID).
		Delete(&CartItemRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart rows: %w", err)
	}
	return nil
}
