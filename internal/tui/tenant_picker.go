package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"opsdash/internal/gateway"
	"opsdash/internal/tenantstore"
)

// ErrPickAborted is returned when the user cancels the tenant picker.
var ErrPickAborted = errors.New("tenant selection aborted by user")

// PickTenant presents an interactive tenant selection. Recently used
// tenants sort first so switching back is a single keystroke. Inactive
// tenants are listed but marked.
func PickTenant(tenants []gateway.Tenant, recent []tenantstore.Usage) (*gateway.Tenant, error) {
	if len(tenants) == 0 {
		return nil, fmt.Errorf("no tenants available")
	}

	ordered := orderByRecency(tenants, recent)

	byID := make(map[string]gateway.Tenant, len(ordered))
	options := make([]huh.Option[string], 0, len(ordered))
	for _, t := range ordered {
		byID[t.TenantID] = t
		options = append(options, huh.NewOption(tenantOptionLabel(t), t.TenantID))
	}

	height := len(options)
	if height < 5 {
		height = 5
	}
	if height > 12 {
		height = 12
	}

	var selected string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Select tenant").
			Options(options...).
			Value(&selected).
			Height(height),
	)).WithAccessible(os.Getenv("ACCESSIBLE") != "")

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrPickAborted
		}
		return nil, err
	}

	t := byID[selected]
	return &t, nil
}

// orderByRecency sorts recently selected tenants to the front, newest
// first, keeping server order for the rest.
func orderByRecency(tenants []gateway.Tenant, recent []tenantstore.Usage) []gateway.Tenant {
	rank := make(map[string]int, len(recent))
	for i, u := range recent {
		rank[u.TenantID] = i
	}

	var used, rest []gateway.Tenant
	for _, t := range tenants {
		if _, ok := rank[t.TenantID]; ok {
			used = append(used, t)
		} else {
			rest = append(rest, t)
		}
	}
	for i := 1; i < len(used); i++ {
		for j := i; j > 0 && rank[used[j].TenantID] < rank[used[j-1].TenantID]; j-- {
			used[j], used[j-1] = used[j-1], used[j]
		}
	}
	return append(used, rest...)
}

func tenantOptionLabel(t gateway.Tenant) string {
	parts := []string{t.TenantID}
	if t.Name != "" && t.Name != t.TenantID {
		parts = append(parts, t.Name)
	}
	if !t.IsActive {
		parts = append(parts, "(inactive)")
	}
	return strings.Join(parts, "  ")
}
