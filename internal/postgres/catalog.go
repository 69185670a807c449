package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/warung-pos/engine/internal/catalog"
)

// GetVariantForOrder loads a variant with its addon groups, combo option
// groups and fixed combo items fully resolved, in stored sort order.
// Returns pgx.ErrNoRows unwrapped when the variant does not exist, so the
// assembler can map it to its own not-found error.
func (q *Queries) GetVariantForOrder(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var (
		v                     catalog.Variant
		price, cost, stockQty pgtype.Numeric
	)
	err := q.db.QueryRow(ctx, `
		SELECT id, name, price, cost_price, stock_quantity, manage_stock, is_combo
		FROM variants
		WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &price, &cost, &stockQty, &v.ManageStock, &v.IsCombo)
	if err != nil {
		return nil, err
	}
	v.Price = numericToDecimal(price)
	v.CostPrice = numericToDecimal(cost)
	v.StockQuantity = numericToDecimal(stockQty)

	if v.AddonGroups, err = q.addonGroupsForVariant(ctx, v.ID); err != nil {
		return nil, fmt.Errorf("addon groups: %w", err)
	}
	if v.ComboGroups, err = q.comboGroupsForVariant(ctx, v.ID); err != nil {
		return nil, fmt.Errorf("combo option groups: %w", err)
	}
	if v.ComboItems, err = q.comboItemsForVariant(ctx, v.ID); err != nil {
		return nil, fmt.Errorf("combo items: %w", err)
	}
	return &v, nil
}

func (q *Queries) addonGroupsForVariant(ctx context.Context, variantID uuid.UUID) ([]catalog.AddonGroup, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, name, min_options, max_options, is_required
		FROM addon_groups
		WHERE variant_id = $1
		ORDER BY sort_order, id
	`, variantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []catalog.AddonGroup
	for rows.Next() {
		var g catalog.AddonGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.MinOptions, &g.MaxOptions, &g.IsRequired); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		opts, err := q.addonOptionsForGroup(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Options = opts
	}
	return groups, nil
}

func (q *Queries) addonOptionsForGroup(ctx context.Context, groupID uuid.UUID) ([]catalog.AddonOption, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, group_id, name, additional_price
		FROM addon_options
		WHERE group_id = $1
		ORDER BY sort_order, id
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []catalog.AddonOption
	for rows.Next() {
		var (
			o     catalog.AddonOption
			price pgtype.Numeric
		)
		if err := rows.Scan(&o.ID, &o.GroupID, &o.Name, &price); err != nil {
			return nil, err
		}
		o.AdditionalPrice = numericToDecimal(price)
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (q *Queries) comboGroupsForVariant(ctx context.Context, variantID uuid.UUID) ([]catalog.ComboOptionGroup, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, name, min_options, max_options, is_required
		FROM combo_option_groups
		WHERE variant_id = $1
		ORDER BY sort_order, id
	`, variantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []catalog.ComboOptionGroup
	for rows.Next() {
		var g catalog.ComboOptionGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.MinOptions, &g.MaxOptions, &g.IsRequired); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		items, err := q.comboOptionItemsForGroup(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Items = items
	}
	return groups, nil
}

func (q *Queries) comboOptionItemsForGroup(ctx context.Context, groupID uuid.UUID) ([]catalog.ComboOptionItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT coi.id, coi.group_id, coi.variant_id, v.name, coi.additional_price, coi.quantity
		FROM combo_option_items coi
		JOIN variants v ON v.id = coi.variant_id
		WHERE coi.group_id = $1
		ORDER BY coi.sort_order, coi.id
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []catalog.ComboOptionItem
	for rows.Next() {
		var (
			it    catalog.ComboOptionItem
			price pgtype.Numeric
		)
		if err := rows.Scan(&it.ID, &it.GroupID, &it.VariantID, &it.Name, &price, &it.Quantity); err != nil {
			return nil, err
		}
		it.AdditionalPrice = numericToDecimal(price)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (q *Queries) comboItemsForVariant(ctx context.Context, comboID uuid.UUID) ([]catalog.ComboItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, combo_id, variant_id, quantity
		FROM combo_items
		WHERE combo_id = $1
		ORDER BY sort_order, id
	`, comboID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []catalog.ComboItem
	for rows.Next() {
		var ci catalog.ComboItem
		if err := rows.Scan(&ci.ID, &ci.ComboID, &ci.VariantID, &ci.Quantity); err != nil {
			return nil, err
		}
		items = append(items, ci)
	}
	return items, rows.Err()
}
