package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/orderdesk/internal/config"
	"github.com/orderdesk/orderdesk/internal/database"
	"github.com/orderdesk/orderdesk/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db         *bun.DB
	bcryptCost int
	logger     *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, cfg config.Config, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, bcryptCost: cfg.Auth.BcryptCost, logger: logger}
}

// Users seeds a development user if it is missing. The login id is
// 12 characters, matching the registration precondition.
func (s *Seeder) Users(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("dev-password"), s.bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := entity.User{
		LoginID:    "LRN000000001",
		SecretHash: string(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = s.db.NewInsert().Model(&user).
		On("CONFLICT (login_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("seeded user", zap.String("login_id", user.LoginID))
	}
	return nil
}

// Orders seeds a couple of sample orders for local development.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Order{
		{
			CustomerID: "c-1000",
			Items:      []entity.OrderItem{{Item: "pen", Quantity: 2}, {Item: "notebook", Quantity: 1}},
			Status:     "new",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			CustomerID: "c-1001",
			Items:      []entity.OrderItem{{Item: "stapler", Quantity: 1}},
			Status:     "processing",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}

	for _, sample := range samples {
		order := sample
		if _, err := s.db.NewInsert().Model(&order).Exec(ctx); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}
