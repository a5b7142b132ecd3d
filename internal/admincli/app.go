// Package admincli is an operator tool that creates an administrator account
// directly in the database. It exists so the first ADMIN can be bootstrapped
// without going through the HTTP API, which only registers USER-level
// accounts by default.
package admincli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

type App struct {
	config *config.Config
	in     *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	return &App{config: cfg, in: bufio.NewReader(in), out: out}
}

// Run prompts for the account details, hashes the password, and inserts the
// user with the ADMIN role.
func (app *App) Run(ctx context.Context) error {
	username, err := getSimpleText(app.in, "Enter username", app.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(app.in, "Enter email", app.out)
	if err != nil {
		return err
	}

	password, err := getPassword(app.out)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []models.Role{models.RoleAdmin},
	}

	created, err := rm.Users(db).Create(ctx, user)
	if err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	fmt.Fprintf(app.out, "Created admin %s (id %d)\n", created.Email, created.ID)
	return nil
}
