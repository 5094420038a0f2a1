package company

// WellKnownID is the fixed row id of the singleton company record. Reading
// and upserting always target this key, never "first row returned".
const WellKnownID int64 = 1

// Info is the company/department text printed on every roster PDF header.
type Info struct {
	ID             int64  `gorm:"primaryKey;column:id" json:"id"`
	CompanyName    string `gorm:"column:company_name" json:"company_name"`
	DepartmentName string `gorm:"column:department_name" json:"department_name"`
}

func (Info) TableName() string { return "company_info" }

// Defaults used before the first roster save ever touches the record.
const (
	DefaultCompanyName    = "My Company"
	DefaultDepartmentName = "General Department"
)

type Repository interface {
	Get() (*Info, error)
	// Upsert writes the singleton row, inserting it when absent.
	Upsert(companyName, departmentName string) error
}
