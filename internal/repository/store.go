package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"k9vision/api/internal/models"
)

// DB is the slice of pgx shared by *pgxpool.Pool and pgx.Tx, so every
// repository works the same inside and outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserStore interface {
	Create(ctx context.Context, user models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ActiveEmailInUse(ctx context.Context, email string) (bool, error)
	OverwritePending(ctx context.Context, id int64, username string, passwordHash []byte) error
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash []byte) error
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error
	Delete(ctx context.Context, id int64) error
}

type ClientStore interface {
	Create(ctx context.Context, client models.Client) (int64, error)
	List(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id int64) (models.Client, error)
	FindByEmail(ctx context.Context, email string) (models.Client, error)
	FindByUserID(ctx context.Context, userID int64) (models.Client, error)
	LinkUser(ctx context.Context, clientID int64, userID int64) error
	Update(ctx context.Context, client models.Client) error
	UpdateProfileByUserID(ctx context.Context, userID int64, clientName string, dogName string, dogBreed *string, dogAge *int) error
	Delete(ctx context.Context, id int64) error
}

type TokenStore interface {
	Insert(ctx context.Context, token models.AccountToken) error
	FindValid(ctx context.Context, token string, typ models.TokenType, now time.Time) (models.TokenContext, error)
	Consume(ctx context.Context, token string, now time.Time) (bool, error)
	Invalidate(ctx context.Context, typ models.TokenType, userID int64, email string, now time.Time) error
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

type NoteStore interface {
	Create(ctx context.Context, note models.Note) (int64, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Note, error)
	GetByID(ctx context.Context, id int64) (models.Note, error)
	Update(ctx context.Context, id int64, title string, content string) error
	Delete(ctx context.Context, id int64) error
}

type FunFactStore interface {
	Create(ctx context.Context, fact models.FunFact) (int64, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.FunFact, error)
	Delete(ctx context.Context, id int64) error
}

type MediaStore interface {
	Create(ctx context.Context, media models.Media) (int64, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Media, error)
	GetByID(ctx context.Context, id int64) (models.Media, error)
	Delete(ctx context.Context, id int64) error
}

type ServiceStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Service, error)
	GetByID(ctx context.Context, id int64) (models.Service, error)
	Create(ctx context.Context, svc models.Service) (int64, error)
	Update(ctx context.Context, svc models.Service) error
	Delete(ctx context.Context, id int64) error
}

type InvoiceStore interface {
	Insert(ctx context.Context, invoice models.Invoice) (int64, error)
	InsertItem(ctx context.Context, item models.InvoiceItem) error
	List(ctx context.Context) ([]models.Invoice, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Invoice, error)
	GetByID(ctx context.Context, id int64) (models.Invoice, error)
	ListItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error)
	UpdateStatus(ctx context.Context, id int64, status models.InvoiceStatus) error
}

// Store aggregates the repositories and scopes them to either the shared
// pool or a single transaction handed out by InTx.
type Store interface {
	Users() UserStore
	Clients() ClientStore
	Tokens() TokenStore
	Notes() NoteStore
	FunFacts() FunFactStore
	Media() MediaStore
	Services() ServiceStore
	Invoices() InvoiceStore
	InTx(ctx context.Context, fn func(Store) error) error
}

type Postgres struct {
	pool *pgxpool.Pool
	db   DB
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, db: pool}
}

func (p *Postgres) Users() UserStore       { return &UserRepository{db: p.db} }
func (p *Postgres) Clients() ClientStore   { return &ClientRepository{db: p.db} }
func (p *Postgres) Tokens() TokenStore     { return &TokenRepository{db: p.db} }
func (p *Postgres) Notes() NoteStore       { return &NoteRepository{db: p.db} }
func (p *Postgres) FunFacts() FunFactStore { return &FunFactRepository{db: p.db} }
func (p *Postgres) Media() MediaStore      { return &MediaRepository{db: p.db} }
func (p *Postgres) Services() ServiceStore { return &ServiceRepository{db: p.db} }
func (p *Postgres) Invoices() InvoiceStore { return &InvoiceRepository{db: p.db} }

// InTx runs fn against a store bound to one transaction. A nested call
// on a transaction-bound store joins the outer transaction.
func (p *Postgres) InTx(ctx context.Context, fn func(Store) error) error {
	if p.pool == nil {
		return fn(p)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Postgres{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
