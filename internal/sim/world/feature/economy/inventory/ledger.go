package inventory

import (
	"errors"
	"fmt"
	"sort"

	"tilerts.ai/internal/sim/catalogs"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

var ErrInsufficient = errors.New("insufficient resources")

// Extract removes up to amount from node and returns what was removed.
func Extract(node *modelpkg.ResourceNode, amount int) int {
	if node == nil || amount <= 0 || node.Quantity <= 0 {
		return 0
	}
	n := min(amount, node.Quantity)
	node.Quantity -= n
	return n
}

// Deposit stores up to amount and returns the quantity actually stored.
func Deposit(inv modelpkg.Inventory, kind catalogs.ResourceKind, amount int) int {
	if inv == nil || amount <= 0 {
		return 0
	}
	return amount - inv.Put(kind, amount)
}

func Withdraw(inv modelpkg.Inventory, kind catalogs.ResourceKind, amount int) int {
	if inv == nil || amount <= 0 {
		return 0
	}
	return inv.Take(kind, amount)
}

// Transfer moves min(amount, held by src, room in dst) and returns it. The
// combined count of kind across src and dst never changes.
func Transfer(src, dst modelpkg.Inventory, kind catalogs.ResourceKind, amount int) int {
	if src == nil || dst == nil || amount <= 0 {
		return 0
	}
	n := min(amount, src.Count(kind), dst.Room(kind))
	if n <= 0 {
		return 0
	}
	n = src.Take(kind, n)
	if back := dst.Put(kind, n); back > 0 {
		src.Put(kind, back)
		n -= back
	}
	return n
}

// CanAfford reports whether inv holds every entry of cost.
func CanAfford(inv modelpkg.Inventory, cost map[catalogs.ResourceKind]int) bool {
	if inv == nil {
		return len(cost) == 0
	}
	for kind, c := range cost {
		if c > 0 && inv.Count(kind) < c {
			return false
		}
	}
	return true
}

// DeductCost removes cost from inv atomically: nothing is taken unless all of
// it is available.
func DeductCost(inv modelpkg.Inventory, cost map[catalogs.ResourceKind]int) error {
	if !CanAfford(inv, cost) {
		return fmt.Errorf("%w: need %s", ErrInsufficient, formatCost(cost))
	}
	for kind, c := range cost {
		if c <= 0 {
			continue
		}
		inv.Take(kind, c)
	}
	return nil
}

func formatCost(cost map[catalogs.ResourceKind]int) string {
	kinds := make([]string, 0, len(cost))
	for k := range cost {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%s=%d", k, cost[catalogs.ResourceKind(k)])
	}
	return s
}
