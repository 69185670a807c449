package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/warung-pos/engine/internal/order"
)

// ErrStockConflict means the commit-time stock re-check failed: another
// transaction consumed the stock between assembly and commit.
var ErrStockConflict = errors.New("insufficient stock at commit time")

// CommitOrderItem persists an assembled order item graph and applies its
// stock decrement in one transaction. The decrement re-validates available
// stock; assembly's earlier check was advisory only.
func (s *Store) CommitOrderItem(ctx context.Context, graph *order.OrderItemGraph) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if dec := graph.StockDecrement; dec != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE variants
			SET stock_quantity = stock_quantity - $1
			WHERE id = $2 AND stock_quantity >= $1
		`, decimalToNumeric(dec.Quantity), dec.VariantID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrStockConflict
		}
	}

	item := graph.Item
	_, err = tx.Exec(ctx, `
		INSERT INTO order_items (id, variant_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID, item.VariantID, item.Quantity,
		decimalToNumeric(item.UnitPrice), decimalToNumeric(item.TotalPrice))
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}

	for i, opt := range item.Options {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_item_options (id, order_item_id, addon_group_id, addon_option_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, opt.ID, item.ID, opt.AddonGroupID, opt.AddonOptionID, opt.Quantity,
			decimalToNumeric(opt.UnitPrice))
		if err != nil {
			return fmt.Errorf("insert order item option [%d]: %w", i, err)
		}
	}

	for i, co := range item.ComboOptions {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_item_combo_options (id, order_item_id, combo_group_id, combo_option_item_id, variant_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, co.ID, item.ID, co.ComboGroupID, co.ComboOptionItemID, co.VariantID, co.Quantity,
			decimalToNumeric(co.UnitPrice))
		if err != nil {
			return fmt.Errorf("insert order item combo option [%d]: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
