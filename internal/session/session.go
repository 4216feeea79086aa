// Package session establishes the account identity that scopes all
// persistence: a remote account authenticated against the accounts table, or
// the local guest sentinel when no remote backend is configured.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mccwk.com/rl/internal/store"
)

const (
	// LocalUserID is the sentinel account id that forces the local store.
	LocalUserID = "local-user"
	GuestEmail  = "GUEST@LOCAL"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Account identifies whose links are visible.
type Account struct {
	ID    string
	Email string
}

// IsGuest reports whether this is the local-guest sentinel account.
func (a Account) IsGuest() bool { return a.ID == LocalUserID }

type accountRow struct {
	ID           string    `gorm:"column:id;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (accountRow) TableName() string { return "accounts" }

// Manager owns the current account identity. A nil database puts it in local
// mode, where the only available identity is the guest sentinel.
type Manager struct {
	db      *gorm.DB
	current *Account
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Current returns the signed-in account, if any.
func (m *Manager) Current() (Account, bool) {
	if m.current == nil {
		return Account{}, false
	}
	return *m.current, true
}

// Guest signs in as the local-guest sentinel account.
func (m *Manager) Guest() Account {
	acct := Account{ID: LocalUserID, Email: GuestEmail}
	m.current = &acct
	return acct
}

// SignIn authenticates against the remote accounts table.
func (m *Manager) SignIn(ctx context.Context, email, password string) (Account, error) {
	if m.db == nil {
		return m.Guest(), nil
	}

	var row accountRow
	err := m.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, translateErr(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}

	acct := Account{ID: row.ID, Email: row.Email}
	m.current = &acct
	return acct, nil
}

// SignUp creates a new remote account and signs it in.
func (m *Manager) SignUp(ctx context.Context, email, password string) (Account, error) {
	if m.db == nil {
		return m.Guest(), nil
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return Account{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	row := accountRow{Email: normalizeEmail(email), PasswordHash: string(hash)}
	if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Account{}, fmt.Errorf("account already exists for %s", row.Email)
		}
		return Account{}, translateErr(err)
	}

	acct := Account{ID: row.ID, Email: row.Email}
	m.current = &acct
	return acct, nil
}

// SignOut clears the current identity.
func (m *Manager) SignOut() {
	m.current = nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return fmt.Errorf("%w (%s)", store.ErrSetupRequired, pgErr.Message)
	}
	return err
}
