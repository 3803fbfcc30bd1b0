package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "grn:approve"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Approve GRN"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Master data
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "warehouse:view", Name: "View Warehouse"},
	{Code: "warehouse:create", Name: "Create Warehouse"},
	{Code: "warehouse:update", Name: "Update Warehouse"},
	// Ledger
	{Code: "event:view", Name: "View Ledger Events"},
	{Code: "event:create", Name: "Record Ledger Event"},
	{Code: "inventory:view", Name: "View Stock and Batches"},
	// Procurement
	{Code: "po:view", Name: "View Purchase Order"},
	{Code: "po:create", Name: "Create Purchase Order"},
	{Code: "grn:view", Name: "View GRN"},
	{Code: "grn:create", Name: "Create GRN"},
	{Code: "grn:submit", Name: "Submit GRN"},
	{Code: "grn:approve", Name: "Approve or Reject GRN"},
	{Code: "grn:publish", Name: "Publish GRN to Vendor"},
	// Invoice matching
	{Code: "invoice:view", Name: "View Invoice"},
	{Code: "invoice:create", Name: "Create Invoice"},
	{Code: "invoice:match", Name: "Evaluate Invoice Match"},
	{Code: "invoice:override", Name: "Record Match Override"},
	// Settings
	{Code: "settings:view", Name: "View Matching Settings"},
	{Code: "settings:update", Name: "Update Matching Settings"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
