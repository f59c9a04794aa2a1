package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a registered identity. The secret is stored as a bcrypt hash;
// the plaintext never touches the database.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID         int64     `bun:",pk,autoincrement"`
	LoginID    string    `bun:"login_id"`
	SecretHash string    `bun:"secret_hash"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero"`
}
