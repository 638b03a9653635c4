package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
)

// RoleService manages the fixed role catalog
type RoleService struct {
	repo repository.RoleRepository
}

// NewRoleService creates a new role service
func NewRoleService(repo repository.RoleRepository) *RoleService {
	return &RoleService{repo: repo}
}

type roleDefinition struct {
	Name        string
	DisplayName string
	Description string
	PermCodes   []string
}

// defaultPermissions is the full permission catalog, grouped by concern
var defaultPermissions = []models.Permission{
	{Code: "users.read", Name: "View accounts", Group: "users"},
	{Code: "users.write", Name: "Manage accounts", Group: "users"},
	{Code: "roles.read", Name: "View roles", Group: "roles"},
	{Code: "audit.read", Name: "View audit log", Group: "audit"},
	{Code: "sales.read", Name: "View sales records", Group: "sales"},
	{Code: "sales.write", Name: "Manage sales records", Group: "sales"},
	{Code: "inventory.read", Name: "View inventory", Group: "inventory"},
	{Code: "inventory.write", Name: "Manage inventory", Group: "inventory"},
	{Code: "purchasing.read", Name: "View purchase orders", Group: "purchasing"},
	{Code: "purchasing.write", Name: "Manage purchase orders", Group: "purchasing"},
	{Code: "accounting.read", Name: "View accounting records", Group: "accounting"},
	{Code: "accounting.write", Name: "Manage accounting records", Group: "accounting"},
}

// defaultRoles is the fixed catalog seeded at setup time
var defaultRoles = []roleDefinition{
	{
		Name:        models.RoleAdmin,
		DisplayName: "Administrator",
		Description: "Full access to account management and system configuration",
		PermCodes: []string{
			"users.read", "users.write", "roles.read", "audit.read",
			"sales.read", "sales.write", "inventory.read", "inventory.write",
			"purchasing.read", "purchasing.write", "accounting.read", "accounting.write",
		},
	},
	{
		Name:        models.RoleSales,
		DisplayName: "Sales",
		Description: "Sales order entry and customer records",
		PermCodes:   []string{"sales.read", "sales.write", "roles.read"},
	},
	{
		Name:        models.RoleWarehouse,
		DisplayName: "Warehouse",
		Description: "Inventory movements and stock management",
		PermCodes:   []string{"inventory.read", "inventory.write", "roles.read"},
	},
	{
		Name:        models.RoleAudit,
		DisplayName: "Audit",
		Description: "Read-only access to records and the audit trail",
		PermCodes: []string{
			"users.read", "roles.read", "audit.read",
			"sales.read", "inventory.read", "purchasing.read", "accounting.read",
		},
	},
	{
		Name:        models.RolePurchasing,
		DisplayName: "Purchasing",
		Description: "Purchase orders and supplier records",
		PermCodes:   []string{"purchasing.read", "purchasing.write", "roles.read"},
	},
	{
		Name:        models.RoleAccounting,
		DisplayName: "Accounting",
		Description: "Ledgers, invoices and financial records",
		PermCodes:   []string{"accounting.read", "accounting.write", "roles.read"},
	},
}

// EnsureDefaultRoles idempotently inserts the fixed role catalog.
// Roles are matched by name; existing rows keep their display name and
// description untouched. Safe to call repeatedly at bootstrap.
func (s *RoleService) EnsureDefaultRoles(ctx context.Context) error {
	permByCode := make(map[string]models.Permission, len(defaultPermissions))
	for i := range defaultPermissions {
		p := defaultPermissions[i]
		if err := s.repo.FindOrCreatePermission(ctx, &p); err != nil {
			return fmt.Errorf("seed permission %q: %w", p.Code, err)
		}
		permByCode[p.Code] = p
	}

	for _, def := range defaultRoles {
		_, err := s.repo.FindByName(ctx, def.Name)
		if err == nil {
			// Existing rows are never overwritten
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up role %q: %w", def.Name, err)
		}

		role := models.Role{
			Name:        def.Name,
			DisplayName: def.DisplayName,
			Description: def.Description,
			Active:      true,
		}
		if err := s.repo.Create(ctx, &role); err != nil {
			return fmt.Errorf("seed role %q: %w", def.Name, err)
		}

		perms := make([]models.Permission, 0, len(def.PermCodes))
		for _, code := range def.PermCodes {
			if p, ok := permByCode[code]; ok {
				perms = append(perms, p)
			}
		}
		if err := s.repo.ReplacePermissions(ctx, &role, perms); err != nil {
			return fmt.Errorf("assign permissions to role %q: %w", def.Name, err)
		}
	}
	return nil
}

// Delete removes a role. Refused while any profile still references it,
// surfacing repository.ErrRoleInUse.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List returns the active roles ordered by name
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	return s.repo.ListActive(ctx)
}

// Count returns the total number of roles
func (s *RoleService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// FindByName returns the role with the given name
func (s *RoleService) FindByName(ctx context.Context, name string) (*models.Role, error) {
	role, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return role, nil
}
