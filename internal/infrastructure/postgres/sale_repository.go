package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta. Las líneas van por CreateItem.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, customer_id, sale_date, total_amount, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CustomerID, sale.SaleDate, sale.TotalAmount, sale.PaymentMethod,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, item_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ItemID, item.Quantity, item.Price,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con todas sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, customer_id, sale_date, total_amount, payment_method, created_at, updated_at
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CustomerID, &s.SaleDate, &s.TotalAmount, &s.PaymentMethod, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	items, err := r.itemsBySale(id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) itemsBySale(saleID string) ([]entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, item_id, quantity, price
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ItemID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateHeader actualiza la cabecera de la venta. No toca líneas.
func (r *SaleRepo) UpdateHeader(sale *entity.Sale) error {
	query := `
		UPDATE sales SET customer_id = $2, sale_date = $3, total_amount = $4, payment_method = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CustomerID, sale.SaleDate, sale.TotalAmount, sale.PaymentMethod, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// UpdateItem actualiza cantidad y precio de una línea (por venta e ítem).
func (r *SaleRepo) UpdateItem(item *entity.SaleItem) error {
	query := `
		UPDATE sale_items SET quantity = $3, price = $4
		WHERE sale_id = $1 AND item_id = $2`
	_, err := r.q.Exec(context.Background(), query,
		item.SaleID, item.ItemID, item.Quantity, item.Price,
	)
	if err != nil {
		return fmt.Errorf("update sale item: %w", err)
	}
	return nil
}

// DeleteItem elimina una línea de la venta.
func (r *SaleRepo) DeleteItem(saleID, itemID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM sale_items WHERE sale_id = $1 AND item_id = $2`, saleID, itemID)
	if err != nil {
		return fmt.Errorf("delete sale item: %w", err)
	}
	return nil
}

// DeleteItems elimina todas las líneas de la venta.
func (r *SaleRepo) DeleteItems(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_items WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}

// Delete elimina la cabecera de la venta.
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// List lista cabeceras de venta aplicando los filtros presentes, las más
// recientes primero. El WHERE se arma dinámicamente con squirrel.
func (r *SaleRepo) List(f repository.SaleFilter, limit, offset int) ([]*entity.Sale, error) {
	builder := sq.Select("id", "customer_id", "sale_date", "total_amount", "payment_method", "created_at", "updated_at").
		From("sales").
		PlaceholderFormat(sq.Dollar).
		OrderBy("sale_date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if f.CustomerID != "" {
		builder = builder.Where(sq.Eq{"customer_id": f.CustomerID})
	}
	if f.PaymentMethod != "" {
		builder = builder.Where(sq.Eq{"payment_method": f.PaymentMethod})
	}
	if f.From != nil {
		builder = builder.Where(sq.GtOrEq{"sale_date": *f.From})
	}
	if f.To != nil {
		builder = builder.Where(sq.LtOrEq{"sale_date": *f.To})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sale list query: %w", err)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.SaleDate, &s.TotalAmount, &s.PaymentMethod,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
