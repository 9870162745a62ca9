package queries

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// ListOrdersQueryHandler retrieves recent orders from the storage mirror.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler for order list queries.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle executes the query. Returns at most a hundred orders, newest
// first, honouring the optional status filter.
func (h ListOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	const baseQuery = `
		SELECT
			id,
			customer_name,
			customer_phone,
			address,
			dest_latitude,
			dest_longitude,
			weight_kg,
			priority,
			status,
			drone_id,
			created_at,
			updated_at
		FROM orders
	`

	tx := h.db.WithContext(ctx)
	var rows *sql.Rows
	var err error
	if query.Status() != "" {
		rows, err = tx.Raw(baseQuery+`
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, query.Status(), listLimit).Rows()
	} else {
		rows, err = tx.Raw(baseQuery+`
		ORDER BY created_at DESC
		LIMIT ?
	`, listLimit).Rows()
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderResponse, 0)
	for rows.Next() {
		response, scanErr := scanOrderRow(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
