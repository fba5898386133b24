package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem del catálogo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, sku, name, description, category, cost_price, packaging_unit, stock, price_levels, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, item.Description, item.Category,
		item.CostPrice, item.PackagingUnit, item.Stock, item.PriceLevels, item.Status,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `
		SELECT id, sku, name, description, category, cost_price, packaging_unit, stock, price_levels, status, created_at, updated_at
		FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKU obtiene un ítem por su SKU.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	query := `
		SELECT id, sku, name, description, category, cost_price, packaging_unit, stock, price_levels, status, created_at, updated_at
		FROM items WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku))
}

// Update actualiza un ítem existente. No toca stock: eso va por AdjustStock.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, category = $4, cost_price = $5, packaging_unit = $6, price_levels = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Category, item.CostPrice,
		item.PackagingUnit, item.PriceLevels, item.Status, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List lista ítems con paginación, los más recientes primero.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT id, sku, name, description, category, cost_price, packaging_unit, stock, price_levels, status, created_at, updated_at
		FROM items ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.SKU, &it.Name, &it.Description, &it.Category, &it.CostPrice,
			&it.PackagingUnit, &it.Stock, &it.PriceLevels, &it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete elimina un ítem por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// AdjustStock aplica un delta con signo sobre el stock en un solo UPDATE
// condicionado a que el resultado no quede negativo. Con el WHERE como guarda,
// dos transacciones concurrentes nunca pueden descontar más stock del que hay:
// la segunda no matchea la condición y recibe InsufficientStockError.
func (r *ItemRepo) AdjustStock(itemID string, delta int64) (*entity.Item, error) {
	query := `
		UPDATE items SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING id, sku, name, description, category, cost_price, packaging_unit, stock, price_levels, status, created_at, updated_at`
	item, err := r.scanOne(r.q.QueryRow(context.Background(), query, itemID, delta))
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	if item != nil {
		return item, nil
	}

	// El UPDATE no matcheó: distinguir ítem inexistente de stock insuficiente.
	current, err := r.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	return nil, &domain.InsufficientStockError{
		ItemID:    current.ID,
		ItemName:  current.Name,
		Requested: -delta,
		Available: current.Stock,
	}
}

func (r *ItemRepo) scanOne(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.Description, &it.Category, &it.CostPrice,
		&it.PackagingUnit, &it.Stock, &it.PriceLevels, &it.Status, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &it, nil
}
