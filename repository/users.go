package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	auth "github.com/goliatone/go-auth-jwt"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

const pgUniqueViolation = "23505"

// Users is the bun backed credential store
type Users struct {
	repository.Repository[*auth.User]
	db     *bun.DB
	logger auth.Logger
}

var _ auth.CredentialStore = (*Users)(nil)

type UsersOption func(*Users)

// WithUsersLogger sets the store logger
func WithUsersLogger(logger auth.Logger) UsersOption {
	return func(u *Users) {
		u.logger = logger
	}
}

// NewUsers builds the store on top of db
func NewUsers(db *bun.DB, opts ...UsersOption) *Users {
	repo := repository.NewRepository[*auth.User](db, repository.ModelHandlers[*auth.User]{
		NewRecord: func() *auth.User { return &auth.User{} },
		GetID: func(u *auth.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *auth.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	users := &Users{
		Repository: repo,
		db:         db,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(users)
		}
	}

	return users
}

// FindByUsername loads a user with its authorities
func (u *Users) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return u.FindByUsernameTx(ctx, u.db, username)
}

// FindByUsernameTx loads a user with its authorities using tx
func (u *Users) FindByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*auth.User, error) {
	record := &auth.User{}
	err := tx.NewSelect().
		Model(record).
		Relation("Authorities").
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrMemberNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to select user").
			WithMetadata(map[string]any{"username": username})
	}

	return record, nil
}

// Save inserts user and links its authorities in a single transaction.
// Authorities missing from the authority table are created.
func (u *Users) Save(ctx context.Context, user *auth.User) (*auth.User, error) {
	if user == nil {
		return nil, errors.New("user record is required", errors.CategoryBadInput)
	}

	err := u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return u.SaveTx(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	return u.FindByUsername(ctx, user.Username)
}

// SaveTx runs the inserts of Save on tx
func (u *Users) SaveTx(ctx context.Context, tx bun.IDB, user *auth.User) error {
	exists, err := tx.NewSelect().
		Model((*auth.User)(nil)).
		Where("?TableAlias.username = ?", user.Username).
		Exists(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to check username")
	}
	if exists {
		return auth.ErrDuplicateIdentity
	}

	prepareUser(user)
	authorities := user.Authorities
	record := *user
	record.Authorities = nil

	if _, err := u.Repository.CreateTx(ctx, tx, &record); err != nil {
		if isUniqueViolation(err) {
			return auth.ErrDuplicateIdentity
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to insert user")
	}

	for _, a := range authorities {
		if a.Name == "" {
			continue
		}

		if _, err := tx.NewInsert().
			Model(&auth.Authority{Name: a.Name}).
			On("CONFLICT DO NOTHING").
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to insert authority")
		}

		if _, err := tx.NewInsert().
			Model(&auth.UserAuthority{UserID: record.ID, AuthorityName: a.Name}).
			On("CONFLICT DO NOTHING").
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to link authority")
		}
	}

	if u.logger != nil {
		u.logger.Debug("user saved", "username", record.Username, "authorities", len(authorities))
	}

	return nil
}

func prepareUser(user *auth.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt == nil {
		user.CreatedAt = &now
	}
	if user.UpdatedAt == nil {
		user.UpdatedAt = &now
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
