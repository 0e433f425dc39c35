package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"clients_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// ClientRepository defines the persistence operations for clients.
type ClientRepository interface {
	FindAll(ctx context.Context) ([]models.Client, error)
	FindAllPage(ctx context.Context, page, pageSize int) ([]models.Client, int64, error) // Clients, total count, error
	FindByID(ctx context.Context, id int64) (*models.Client, error)
	Save(ctx context.Context, client *models.Client) error
	DeleteByID(ctx context.Context, id int64) error
}

type clientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, last_name, email, create_at, photo`

// FindAll returns every client ordered by id.
func (r *clientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, wrapDBError(err, "querying clients")
	}
	return clients, nil
}

// FindAllPage returns the zero-based page of clients and the total count.
func (r *clientRepository) FindAllPage(ctx context.Context, page, pageSize int) ([]models.Client, int64, error) {
	if page < 0 || pageSize <= 0 || page > math.MaxInt/pageSize {
		return nil, 0, fmt.Errorf("invalid page request: page=%d size=%d", page, pageSize)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM clients`); err != nil {
		return nil, 0, wrapDBError(err, "counting clients")
	}

	clients := []models.Client{}
	query := r.db.Rebind(`SELECT ` + clientColumns + ` FROM clients ORDER BY id ASC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &clients, query, pageSize, page*pageSize); err != nil {
		return nil, 0, wrapDBError(err, "querying client page")
	}
	return clients, total, nil
}

// FindByID retrieves a client by its ID.
func (r *clientRepository) FindByID(ctx context.Context, id int64) (*models.Client, error) {
	client := &models.Client{}
	query := r.db.Rebind(`SELECT ` + clientColumns + ` FROM clients WHERE id = ?`)
	if err := r.db.GetContext(ctx, client, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err, fmt.Sprintf("getting client by ID %d", id))
	}
	return client, nil
}

// Save inserts the client when it has no ID yet, otherwise updates it.
// A new client with a zero CreateAt is stamped with today's date.
func (r *clientRepository) Save(ctx context.Context, client *models.Client) error {
	if client.ID == 0 {
		return r.insert(ctx, client)
	}
	return r.update(ctx, client)
}

func (r *clientRepository) insert(ctx context.Context, client *models.Client) error {
	if client.CreateAt.IsZero() {
		client.CreateAt = models.Today()
	}
	query := r.db.Rebind(`INSERT INTO clients (name, last_name, email, create_at, photo)
	          VALUES (?, ?, ?, ?, ?)
	          RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query,
		client.Name, client.LastName, client.Email, client.CreateAt, client.Photo,
	).Scan(&client.ID)
	if err != nil {
		return wrapDBError(err, "creating client")
	}
	return nil
}

func (r *clientRepository) update(ctx context.Context, client *models.Client) error {
	query := r.db.Rebind(`UPDATE clients SET
	            name = ?, last_name = ?, email = ?, create_at = ?, photo = ?
	          WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		client.Name, client.LastName, client.Email, client.CreateAt, client.Photo, client.ID,
	)
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("updating client ID %d", client.ID))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("getting rows affected for updating client ID %d", client.ID))
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a client from the database.
func (r *clientRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM clients WHERE id = ?`), id)
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("deleting client ID %d", id))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(err, fmt.Sprintf("getting rows affected for deleting client ID %d", id))
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
