package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const timeLayout = time.RFC3339Nano

var ErrNotFound = errors.New("user not found")

type User struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DiscordAccount links a Discord identity to a user.
type DiscordAccount struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Snowflake  string
	Email      string
	AvatarHash string
}

type DiscordToken struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		last_updated TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS discord_users (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		discord_snowflake TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		avatar_hash TEXT,
		created_at TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS discord_oauth (
		user_id TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		expire_time TEXT NOT NULL,
		created_at TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);`

// Open opens or creates the users database at path and applies the schema.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// UpsertByEmail returns the user owning email, creating it first when
// needed.
func (r *Repository) UpsertByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, fmt.Errorf("email cannot be empty")
	}

	now := r.now().UTC().Format(timeLayout)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, created_at, last_updated)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET last_updated = excluded.last_updated`,
		uuid.NewString(), email, now, now,
	)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}

	return r.ByEmail(ctx, email)
}

func (r *Repository) ByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, created_at, last_updated FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func (r *Repository) ByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, created_at, last_updated FROM users WHERE id = ?`,
		id.String(),
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (User, error) {
	var (
		u                User
		id               string
		created, updated string
	)
	if err := row.Scan(&id, &u.Email, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}

	var err error
	if u.ID, err = uuid.Parse(id); err != nil {
		return User{}, fmt.Errorf("parse user id: %w", err)
	}
	if u.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return User{}, fmt.Errorf("parse created_at: %w", err)
	}
	if u.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return User{}, fmt.Errorf("parse last_updated: %w", err)
	}
	return u, nil
}

// LinkDiscord records the Discord identity for userID. Relinking the same
// snowflake updates the stored details.
func (r *Repository) LinkDiscord(ctx context.Context, userID uuid.UUID, snowflake, email, avatarHash string) (DiscordAccount, error) {
	now := r.now().UTC().Format(timeLayout)

	var avatar any
	if avatarHash != "" {
		avatar = avatarHash
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO discord_users (id, user_id, discord_snowflake, email, avatar_hash, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(discord_snowflake) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			avatar_hash = excluded.avatar_hash,
			last_updated = excluded.last_updated`,
		uuid.NewString(), userID.String(), snowflake, email, avatar, now, now,
	)
	if err != nil {
		return DiscordAccount{}, fmt.Errorf("link discord account: %w", err)
	}

	return r.DiscordAccount(ctx, snowflake)
}

func (r *Repository) DiscordAccount(ctx context.Context, snowflake string) (DiscordAccount, error) {
	var (
		a          DiscordAccount
		id, userID string
		avatar     sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, discord_snowflake, email, avatar_hash FROM discord_users WHERE discord_snowflake = ?`,
		snowflake,
	).Scan(&id, &userID, &a.Snowflake, &a.Email, &avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DiscordAccount{}, ErrNotFound
		}
		return DiscordAccount{}, fmt.Errorf("query discord account: %w", err)
	}

	if a.ID, err = uuid.Parse(id); err != nil {
		return DiscordAccount{}, fmt.Errorf("parse discord account id: %w", err)
	}
	if a.UserID, err = uuid.Parse(userID); err != nil {
		return DiscordAccount{}, fmt.Errorf("parse user id: %w", err)
	}
	a.AvatarHash = avatar.String
	return a, nil
}

func (r *Repository) SaveDiscordToken(ctx context.Context, tok DiscordToken) error {
	now := r.now().UTC().Format(timeLayout)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO discord_oauth (user_id, access_token, refresh_token, expire_time, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expire_time = excluded.expire_time,
			last_updated = excluded.last_updated`,
		tok.UserID.String(), tok.AccessToken, tok.RefreshToken, tok.ExpiresAt.UTC().Format(timeLayout), now, now,
	)
	if err != nil {
		return fmt.Errorf("save discord token: %w", err)
	}
	return nil
}

func (r *Repository) DiscordToken(ctx context.Context, userID uuid.UUID) (DiscordToken, error) {
	tok := DiscordToken{UserID: userID}
	var expires string
	err := r.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, expire_time FROM discord_oauth WHERE user_id = ?`,
		userID.String(),
	).Scan(&tok.AccessToken, &tok.RefreshToken, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DiscordToken{}, ErrNotFound
		}
		return DiscordToken{}, fmt.Errorf("query discord token: %w", err)
	}

	if tok.ExpiresAt, err = time.Parse(timeLayout, expires); err != nil {
		return DiscordToken{}, fmt.Errorf("parse expire_time: %w", err)
	}
	return tok, nil
}
